package reset

import "fmt"

// Step names the part of a master reset that failed.
type Step string

const (
	StepUserDataDir      Step = "user-data-dir"
	StepReadDir          Step = "read-dir"
	StepRemoveEntry      Step = "remove-entry"
	StepDeleteMods       Step = "delete-mods"
	StepDeleteSoundpacks Step = "delete-soundpacks"
	StepDeleteTilesets   Step = "delete-tilesets"
	StepResetSettings    Step = "reset-settings"
)

var stepMessages = map[Step]string{
	StepUserDataDir:      "failed to get user data directory",
	StepReadDir:          "failed to read directory",
	StepRemoveEntry:      "failed to remove entry",
	StepDeleteMods:       "failed to delete installed mods",
	StepDeleteSoundpacks: "failed to delete installed soundpacks",
	StepDeleteTilesets:   "failed to delete installed tilesets",
	StepResetSettings:    "failed to reset settings",
}

// Error is the first failure of a master reset. Steps before it have
// already taken effect.
type Error struct {
	Step Step
	Path string // set for filesystem steps
	Err  error
}

func (e *Error) Error() string {
	msg := stepMessages[e.Step]
	if msg == "" {
		msg = string(e.Step)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", msg, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
