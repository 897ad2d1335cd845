package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or basename automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// FrameOpts configures code-frame rendering. Supplied per render call,
// никогда не мутируется рендером.
type FrameOpts struct {
	Context  int // context lines above and below the error line
	MaxWidth int // максимальная ширина строки, <=0 - не ограничено
	TabWidth int // tab stop width, <=0 means the default of 4
}

// DefaultFrameOpts returns the standard two-line context window.
func DefaultFrameOpts() FrameOpts {
	return FrameOpts{Context: 2, MaxWidth: 0, TabWidth: 4}
}

// PrettyOpts configures the plain one-line-per-diagnostic listing.
type PrettyOpts struct {
	Color    bool
	Context  int // context lines for code frames, <0 disables frames
	MaxWidth int
	PathMode PathMode
	BaseDir  string
}
