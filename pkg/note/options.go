package note

// Limits bound the work done on a single container.
// Zero values are replaced with defaults.
type Limits struct {
	MaxContainerLen int
	MaxMetadataLen  int
	MaxPages        int
}

func defaultLimits() Limits {
	return Limits{
		MaxContainerLen: 1<<31 - 1, // 2 GiB
		MaxMetadataLen:  4 << 20,   // 4 MiB
		MaxPages:        10_000,
	}
}

func (l Limits) withDefaults() Limits {
	d := defaultLimits()
	if l.MaxContainerLen == 0 {
		l.MaxContainerLen = d.MaxContainerLen
	}
	if l.MaxMetadataLen == 0 {
		l.MaxMetadataLen = d.MaxMetadataLen
	}
	if l.MaxPages == 0 {
		l.MaxPages = d.MaxPages
	}
	return l
}

type readConfig struct {
	limits Limits
	strict bool
}

// ReadOption configures how a container is read.
type ReadOption func(*readConfig)

// WithLimits sets the size limits applied while reading.
func WithLimits(l Limits) ReadOption {
	return func(c *readConfig) { c.limits = l }
}

// WithStrict rejects metadata keys that are not in the field table of a
// block kind. The default is lenient: unknown keys are kept.
func WithStrict(v bool) ReadOption {
	return func(c *readConfig) { c.strict = v }
}

func newReadConfig(opts []ReadOption) readConfig {
	var c readConfig
	for _, o := range opts {
		o(&c)
	}
	c.limits = c.limits.withDefaults()
	return c
}
