package registry

// Option defines a functional configuration type for the Directory.
type Option func(*Directory)

// WithCapacity sets how many room names are remembered before the least
// recently recorded one is evicted.
func WithCapacity(n int) Option {
	return func(d *Directory) {
		d.settings.capacity = n
	}
}
