package topology

import "fmt"

const maxNameLength = 64

// ValidateName checks that name is a valid resource name: 1 to 64 ASCII
// letters, digits and hyphens, starting with a letter, with no consecutive
// or trailing hyphens.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w %q: longer than %d characters", ErrInvalidName, name, maxNameLength)
	}
	if !isLetter(name[0]) {
		return fmt.Errorf("%w %q: must start with an ASCII letter", ErrInvalidName, name)
	}
	for i := 0; i < len(name); i++ {
		ch := name[i]
		switch {
		case isLetter(ch), ch >= '0' && ch <= '9':
		case ch == '-':
			if i == len(name)-1 {
				return fmt.Errorf("%w %q: must not end with a hyphen", ErrInvalidName, name)
			}
			if name[i+1] == '-' {
				return fmt.Errorf("%w %q: must not contain consecutive hyphens", ErrInvalidName, name)
			}
		default:
			return fmt.Errorf("%w %q: must contain only ASCII letters, digits and hyphens", ErrInvalidName, name)
		}
	}
	return nil
}

func isLetter(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}

// validateResource returns all structural errors for one resource: its
// name, its image, its endpoints, its mounts, plus anything recorded while
// it was being declared.
func validateResource(c *Container) []error {
	var errs []error
	if err := ValidateName(c.name); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, c.errs...)

	if err := validateImage(c.name, c.image); err != nil {
		errs = append(errs, err)
	}

	for _, ep := range c.endpoints {
		if err := validateEndpoint(c.name, ep); err != nil {
			errs = append(errs, err)
		}
	}

	targets := make(map[string]string, len(c.mounts))
	for _, m := range c.mounts {
		if prev, ok := targets[m.Target]; ok {
			errs = append(errs, fmt.Errorf("resource %q: %w %q: %q and %q",
				c.name, ErrDuplicateMountTarget, m.Target, prev, m.Source))
			continue
		}
		targets[m.Target] = m.Source
	}
	return errs
}

func validateEndpoint(resource string, ep Endpoint) error {
	if ep.Name == "" {
		return fmt.Errorf("resource %q: %w: endpoint name is required", resource, ErrInvalidEndpoint)
	}
	if !ep.Scheme.Valid() {
		return fmt.Errorf("resource %q: %w %q: unknown scheme %q", resource, ErrInvalidEndpoint, ep.Name, ep.Scheme)
	}
	if ep.TargetPort < 1 || ep.TargetPort > 65535 {
		return fmt.Errorf("resource %q: %w %q: target port %d out of range", resource, ErrInvalidEndpoint, ep.Name, ep.TargetPort)
	}
	if ep.Port != nil && (*ep.Port < 1 || *ep.Port > 65535) {
		return fmt.Errorf("resource %q: %w %q: host port %d out of range", resource, ErrInvalidEndpoint, ep.Name, *ep.Port)
	}
	return nil
}
