package pipeline

import "path/filepath"

const (
	// FrameExt is the container extension of converted frames.
	FrameExt = "tga"

	sheetPrefix = "mks_"
)

// Layout names every file a run touches once the tool directory is known.
//
//	<out>/frame_N.tga                       converted frames
//	<tool>/frame_N.tga                      copies read by the pack tool
//	<tool>/mks_<name>.mks                   manifest
//	<tool>/mks_<name>.sht, .tga             pack outputs
//	<tool>/usermod/materialsrc/mks_<name>.* compile inputs
//	<tool>/materials/mks_<name>.vtf         compile output
//	<out>/<name>.vtf, <name>.vmt            deliverables
type Layout struct {
	OutputDir      string
	ToolDir        string
	MaterialSrcDir string
	MaterialsDir   string

	GameInfoSrc string
	GameInfoDst string

	Manifest   string
	Sheet      string
	SheetImage string

	SrcSheet      string
	SrcSheetImage string

	CompiledTexture string
	Texture         string
	Material        string
}

// SheetBase is the file stem shared by the pack and compile artifacts.
func SheetBase(name string) string {
	return sheetPrefix + name
}

// NewLayout derives all paths for a run against toolDir.
func NewLayout(rc *RunContext, toolDir string) Layout {
	base := SheetBase(rc.OutputName)
	src := filepath.Join(toolDir, "usermod", "materialsrc")

	gameInfo := rc.GameInfo
	if gameInfo == "" {
		gameInfo = filepath.Join(toolDir, "..", "tf", "gameinfo.txt")
	}

	return Layout{
		OutputDir:      rc.OutputDir,
		ToolDir:        toolDir,
		MaterialSrcDir: src,
		MaterialsDir:   filepath.Join(toolDir, "materials"),

		GameInfoSrc: filepath.Clean(gameInfo),
		GameInfoDst: filepath.Join(toolDir, "gameinfo.txt"),

		Manifest:   filepath.Join(toolDir, base+".mks"),
		Sheet:      filepath.Join(toolDir, base+".sht"),
		SheetImage: filepath.Join(toolDir, base+".tga"),

		SrcSheet:      filepath.Join(src, base+".sht"),
		SrcSheetImage: filepath.Join(src, base+".tga"),

		CompiledTexture: filepath.Join(toolDir, "materials", base+".vtf"),
		Texture:         filepath.Join(rc.OutputDir, rc.OutputName+".vtf"),
		Material:        filepath.Join(rc.OutputDir, rc.OutputName+".vmt"),
	}
}

// ToolFrame is the path of the pack tool's copy of a converted frame.
func (l Layout) ToolFrame(name string) string {
	return filepath.Join(l.ToolDir, name)
}
