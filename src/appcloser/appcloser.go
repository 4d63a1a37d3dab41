// Package appcloser quits running applications in bulk so the machine can
// wind down: everything except a keep list, or curated leisure and
// resource-heavy sets.
package appcloser

import (
	"strings"

	"task-goblin/src/automation"
)

// defaultKeepApps never get closed by CloseAll. System surfaces, terminals,
// and background tooling stay up; quitting Finder or Docker mid-session does
// more harm than the cleanup is worth.
var defaultKeepApps = []string{
	"Finder",
	"TaskGoblin",
	"Terminal",
	"iTerm2",
	"System Events",
	"System Settings",
	"System Preferences",
	"Activity Monitor",
	"Console",
	"Docker",
	"Docker Desktop",
	"1Password",
	"1Password 7",
	"Alfred",
	"Raycast",
	"Dropbox",
	"Google Drive",
	"OneDrive",
	"Rectangle",
	"Magnet",
	"BetterTouchTool",
	"Logi Options",
	"Logi Options+",
	"Logitech G HUB",
}

// leisureApps are streaming, chat, and gaming apps.
var leisureApps = []string{
	"Spotify",
	"Netflix",
	"YouTube",
	"Hulu",
	"Disney+",
	"Prime Video",
	"Apple Music",
	"Music",
	"Discord",
	"Slack",
	"Telegram",
	"WhatsApp",
	"Messenger",
	"Facebook",
	"Twitch",
	"Steam",
	"Epic Games Launcher",
	"Battle.net",
	"Origin",
	"EA app",
	"GOG Galaxy",
	"iTunes",
	"TV",
	"Podcasts",
	"Books",
}

// heavyApps are browsers, IDEs, and other big memory consumers.
var heavyApps = []string{
	"Google Chrome",
	"Chrome",
	"Safari",
	"Firefox",
	"Arc",
	"Brave Browser",
	"Microsoft Edge",
	"Docker Desktop",
	"Docker",
	"Xcode",
	"Visual Studio Code",
	"Code",
	"Figma",
	"Zoom",
	"Microsoft Teams",
	"Webex",
	"Adobe Acrobat",
	"Adobe Acrobat DC",
	"IntelliJ IDEA",
	"WebStorm",
	"PhpStorm",
	"PyCharm",
	"Android Studio",
}

type Closer struct {
	runner automation.Runner
}

func New(runner automation.Runner) *Closer {
	return &Closer{runner: runner}
}

// quotedList renders names as an AppleScript list literal body.
func quotedList(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = `"` + automation.EscapeAppleScript(name) + `"`
	}
	return strings.Join(quoted, ", ")
}

// closeAllScript quits every regular (non background-only) process whose
// name is not in the keep list. Quitting goes through the bundle identifier
// so processes named differently from their app still get a clean quit.
func closeAllScript(keep []string) string {
	return `set keepApps to {` + quotedList(keep) + `}
tell application "System Events"
	set procs to every application process where background only is false
	repeat with p in procs
		set procName to name of p
		if keepApps does not contain procName then
			try
				set bundleId to bundle identifier of p
				tell application id bundleId to quit
			end try
		end if
	end repeat
end tell`
}

// closeNamedScript quits each listed app that is currently running.
func closeNamedScript(targets []string) string {
	return `set targetApps to {` + quotedList(targets) + `}
tell application "System Events"
	repeat with appName in targetApps
		if exists (application process appName) then
			try
				tell application appName to quit
			end try
		end if
	end repeat
end tell`
}
