package crawl

// Frontier is a FIFO crawl queue with an exact visited set.
// Every queued URL is also marked visited, so a URL is handed out at most
// once for the lifetime of the Frontier.
//
// A Frontier belongs to a single crawl and is not safe for concurrent use.
type Frontier struct {
	seen  map[string]struct{}
	queue []string
}

// NewFrontier creates an empty Frontier.
func NewFrontier() *Frontier {
	return &Frontier{seen: make(map[string]struct{})}
}

// Push marks url visited and appends it to the queue.
// Returns false if the URL has already been seen.
func (f *Frontier) Push(url string) bool {
	if _, ok := f.seen[url]; ok {
		return false
	}
	f.seen[url] = struct{}{}
	f.queue = append(f.queue, url)
	return true
}

// Pop removes and returns the oldest queued URL.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (string, bool) {
	if len(f.queue) == 0 {
		return "", false
	}
	url := f.queue[0]
	f.queue[0] = ""
	f.queue = f.queue[1:]
	return url, true
}

// Len returns the number of URLs waiting in the queue.
func (f *Frontier) Len() int {
	return len(f.queue)
}

// Visited returns the size of the visited set: every URL ever queued,
// whether or not it has been popped.
func (f *Frontier) Visited() int {
	return len(f.seen)
}
