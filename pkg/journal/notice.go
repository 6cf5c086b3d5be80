package journal

// Notice is a single user-visible, dismissible message describing a failure
// at an I/O boundary (storage, import, photo capture).
type Notice struct {
	Title    string
	Message  string
	Category string
}

// Notice categories.
const (
	NoticeStorage = "storage"
	NoticeImport  = "import"
	NoticePhoto   = "photo"
)

// Reporter holds at most one current notice. A new notice replaces whatever
// is displayed; notices never stack. Construct one at process start and pass
// it to components that surface errors. Not safe for concurrent use, same as
// the store it serves.
type Reporter struct {
	current *Notice
}

// NewReporter returns a reporter with no current notice.
func NewReporter() *Reporter {
	return &Reporter{}
}

// Report replaces the current notice.
func (r *Reporter) Report(n Notice) {
	r.current = &n
}

// Current returns the displayed notice, if any.
func (r *Reporter) Current() (Notice, bool) {
	if r.current == nil {
		return Notice{}, false
	}
	return *r.current, true
}

// Dismiss clears the current notice. Dismissing when nothing is displayed is
// a no-op.
func (r *Reporter) Dismiss() {
	r.current = nil
}
