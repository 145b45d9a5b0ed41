package topology

import (
	"fmt"

	"github.com/google/go-containerregistry/pkg/name"

	"github.com/matgreaves/couchrig/spec"
)

// Image is a container image reference split into registry, repository and
// tag.
type Image = spec.Image

// validateImage checks that img forms a parseable image reference.
func validateImage(resource string, img Image) error {
	if img.Repository == "" {
		return fmt.Errorf("resource %q: %w: no image set", resource, ErrInvalidImage)
	}
	if _, err := name.ParseReference(img.Reference()); err != nil {
		return fmt.Errorf("resource %q: %w %q: %v", resource, ErrInvalidImage, img.Reference(), err)
	}
	return nil
}
