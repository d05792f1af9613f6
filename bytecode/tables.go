package bytecode

// ExceptionHandler is one exception table row. All PCs are byte offsets into
// the code; the protected range [Start, End) is half-open.
type ExceptionHandler struct {
	Start   int
	End     int
	Handler int
	Type    string // caught exception's internal name, "*" catches everything
}

// LocalVar is one local variable table row. The live range [Start, End) is
// in byte offsets, half-open.
type LocalVar struct {
	Slot  int
	Name  string
	Desc  string
	Start int
	End   int
}

// LineEntry maps the instruction starting at PC to a source line number.
type LineEntry struct {
	PC   int
	Line int
}
