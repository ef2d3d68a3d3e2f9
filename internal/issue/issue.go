// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

const (
	ConfigLoadFailedId Id = iota + 1
	ModuleNameMissingId
	InvalidOutputFormatId
	InvalidAddonSourceId
	WatchFailedId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue's Markdown with the given glamour style
// ("dark", "light", "notty", or a path to a JSON style).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md += "\n\n## See also:\n"
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			md += "- <" + string(link) + ">\n"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

addonpaths reads its settings from, in order of precedence:

1. The file passed with ` + "`--config`" + `
2. ` + "`addonpaths.cue`" + ` in the current directory
3. The user configuration file:
   - Linux: ~/.config/addonpaths/config.cue
   - macOS: ~/Library/Application Support/addonpaths/config.cue
   - Windows: %APPDATA%\addonpaths\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ addonpaths config init
~~~

- Check the configuration syntax against the example below

## Example configuration:
~~~cue
app_name: "my-ember-app"
extra_addon_sources: ["engines", "node_modules/@my-scope"]

output: {
  format: "text"
}
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	moduleNameMissingIssue = &Issue{
		id: ModuleNameMissingId,
		mdMsg: `
# Module name is empty!

A module name is a slash-separated path without extension, such as:

- ` + "`routes/my-route`" + `
- ` + "`templates/components/my-component`" + `
- ` + "`test-support/my-helper`" + `

## Example:
~~~
$ addonpaths candidates templates/components/my-component --namespace my-addon
~~~`,
		extLinks: []HttpLink{"https://guides.emberjs.com/release/"},
	}

	invalidOutputFormatIssue = &Issue{
		id: InvalidOutputFormatId,
		mdMsg: `
# Invalid output format!

## Valid formats:
- **text**: one candidate path per line
- **json**: the full report, including module kind and ownership
- **toml**: the full report as TOML
- **shell**: one shell-quoted path per line, safe for ` + "`xargs`" + ` and ` + "`eval`",
	}

	invalidAddonSourceIssue = &Issue{
		id: InvalidAddonSourceId,
		mdMsg: `
# Invalid addon source!

Extra addon sources are directories under the project root that contain
addon packages, for example ` + "`engines`" + ` or ` + "`node_modules/@my-scope`" + `.
They must not be empty.`,
		extLinks: []HttpLink{"https://docs.npmjs.com/cli/using-npm/scope"},
	}

	watchFailedIssue = &Issue{
		id: WatchFailedId,
		mdMsg: `
# Watching for configuration changes failed!

## Things you can try:
- Make sure the project directory exists and is readable
- On Linux, raise the inotify watch limit:
~~~
$ sudo sysctl fs.inotify.max_user_watches=524288
~~~`,
		extLinks: []HttpLink{"https://github.com/fsnotify/fsnotify"},
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		moduleNameMissingIssue.Id():   moduleNameMissingIssue,
		invalidOutputFormatIssue.Id(): invalidOutputFormatIssue,
		invalidAddonSourceIssue.Id():  invalidAddonSourceIssue,
		watchFailedIssue.Id():         watchFailedIssue,
	}
)

// Get returns the issue registered under id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
