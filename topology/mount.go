package topology

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"strings"

	"github.com/matgreaves/couchrig/spec"
)

// MountType distinguishes named volumes from host bind mounts.
type MountType = spec.MountType

const (
	MountVolume = spec.MountVolume
	MountBind   = spec.MountBind
)

// Mount declares a volume or bind mount on a container.
type Mount struct {
	Type     MountType
	Source   string // volume name or host path
	Target   string // path inside the container
	ReadOnly bool
}

// VolumeName returns the generated volume name for a resource:
//
//	{sanitized app}-{hash}-{resource}-{suffix}
//
// The hash is the first 10 hex digits of the SHA-256 of the application
// name, so re-declaring the same topology yields the same name and a
// re-deployment reattaches the existing volume.
func VolumeName(appName, resourceName, suffix string) string {
	sum := sha256.Sum256([]byte(appName))
	hash := hex.EncodeToString(sum[:])[:10]
	return sanitizeVolumePart(appName) + "-" + hash + "-" + resourceName + "-" + suffix
}

// sanitizeVolumePart lowercases s and replaces characters docker rejects in
// volume names with underscores.
func sanitizeVolumePart(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case i > 0 && (r == '-' || r == '.' || r == '_'):
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// volumeSuffix derives a volume name suffix from a container path:
// "/data/db" → "db".
func volumeSuffix(target string) string {
	base := path.Base(path.Clean(target))
	if base == "/" || base == "." {
		return "root"
	}
	return sanitizeVolumePart(base)
}
