package bytecode

// copyStrings returns a copy of the given string slice.
func copyStrings(src []string) []string {
	if src == nil {
		return nil
	}
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}

// copyBytes returns a copy of the given byte slice.
func copyBytes(src []byte) []byte {
	if src == nil {
		return nil
	}
	dst := make([]byte, len(src))
	copy(dst, src)
	return dst
}

// copyHandlers returns a copy of the given exception table.
func copyHandlers(src []ExceptionHandler) []ExceptionHandler {
	if src == nil {
		return nil
	}
	dst := make([]ExceptionHandler, len(src))
	copy(dst, src)
	return dst
}

// copyLocals returns a copy of the given local variable table.
func copyLocals(src []LocalVar) []LocalVar {
	if src == nil {
		return nil
	}
	dst := make([]LocalVar, len(src))
	copy(dst, src)
	return dst
}

// copyLines returns a copy of the given line number table.
func copyLines(src []LineEntry) []LineEntry {
	if src == nil {
		return nil
	}
	dst := make([]LineEntry, len(src))
	copy(dst, src)
	return dst
}
