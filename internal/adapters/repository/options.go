package repository

// Option applies a configuration option to the SQL store.
type Option func(*SQLStore)

// WithMaxOpenConns caps open database connections. SQLite files are
// opened with a single connection regardless.
func WithMaxOpenConns(n int) Option {
	return func(s *SQLStore) {
		if n > 0 {
			s.maxOpenConns = n
		}
	}
}
