package crawler

// Mount is a mounted filesystem.
type Mount struct {
	Root   string // Mount point, forward slashes.
	FSType string
	Local  bool // Worth crawling: a real, locally attached filesystem.
}
