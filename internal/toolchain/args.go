package toolchain

// PackArgs returns the pack tool's positional arguments: the manifest to
// read, then the sheet description and sheet image to write. Paths are
// relative to the tool directory the pack tool runs in.
func PackArgs(manifest, sheet, image string) []string {
	return []string{manifest, sheet, image}
}

// CompileArgs returns the compile tool's single argument, the sheet
// description to compile. The path is passed as one argv element, so spaces
// in the tool directory (Steam's "Team Fortress 2") need no quoting.
func CompileArgs(sheet string) []string {
	return []string{sheet}
}
