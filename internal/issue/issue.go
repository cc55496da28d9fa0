// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ScriptNotFoundId Id = iota + 1
	ScriptFileNotFoundId
	ScriptParseErrorId
	ScriptShapeConflictId
	CommandNotFoundId
	RegistryUnavailableId
	ShellNotFoundId
	CommandFailedId
	ConfigLoadFailedId
	ServeStartFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to look the issue up
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation links shown under "See also"
	extLinks []HttpLink  // external links that might be useful for the user
}

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

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	scriptNotFoundIssue = &Issue{
		id: ScriptNotFoundId,
		mdMsg: `
# Script not found!

The script you named is not in the registry.

## Things you can try:
- List everything that is saved:
~~~
$ grimoire list
~~~

- Check for typos in the script name
- Save the script first:
~~~
$ grimoire save ./deploy.yml
~~~

- Or run with no name to pick one from a menu:
~~~
$ grimoire run
~~~`,
	}

	scriptFileNotFoundIssue = &Issue{
		id: ScriptFileNotFoundId,
		mdMsg: `
# Script file not found!

The file path you gave does not exist or is not readable.

## Things you can try:
- Verify the path and the working directory
- Script files must end in .yml, .yaml or .json
- Check file permissions`,
	}

	scriptParseErrorIssue = &Issue{
		id: ScriptParseErrorId,
		mdMsg: `
# Failed to parse script file!

The file is not a valid script definition in either format.

## Simple format (colon-separated paths):
~~~yaml
status: git status
log:oneline: git log --oneline -20
log:graph: git log --graph --oneline
~~~

## Advanced format (nested menus):
~~~yaml
message: what do you want to do?
missiles:
  command: echo firing
lasers:
  command:
    1: echo charging
    2: echo firing
~~~

## Common issues:
- Tabs used for indentation (YAML requires spaces)
- The same path declared twice
- Numbered command lines that skip a number or do not start at 1
- A path that is both a command and a prefix of deeper paths`,
	}

	scriptShapeConflictIssue = &Issue{
		id: ScriptShapeConflictId,
		mdMsg: `
# Script shapes collide!

The file you are saving reuses a path that the stored script already holds,
but with a different shape: a menu cannot become a command and a command
cannot become a menu.

## Things you can try:
- Inspect the stored script:
~~~
$ grimoire print <name>
~~~

- Pick a different path in the new file
- Or remove the stored script and save from scratch:
~~~
$ grimoire remove <name>
$ grimoire save ./script.yml
~~~`,
	}

	commandNotFoundIssue = &Issue{
		id: CommandNotFoundId,
		mdMsg: `
# Command not found!

The key you specified does not name a command in the script.

## Things you can try:
- Print the script tree to see all keys:
~~~
$ grimoire print <name>
~~~

- Keys are dotted paths from the script root, e.g.:
~~~
deploy.database.migrate
~~~

- Check for typos in the key`,
	}

	registryUnavailableIssue = &Issue{
		id: RegistryUnavailableId,
		mdMsg: `
# Cannot reach the script registry!

The registry backing store could not be read or written.

## Registry locations (file backend):
- Linux: ~/.config/grimoire/scripts.yaml
- macOS: ~/Library/Application Support/grimoire/scripts.yaml
- Windows: %APPDATA%\grimoire\scripts.yaml

## Things you can try:
- Show the active configuration:
~~~
$ grimoire config show
~~~

- If redis_url is set, check that the Redis server is reachable
- Check permissions on the registry file and its directory
- A corrupt registry file can be moved aside; saving recreates it`,
	}

	shellNotFoundIssue = &Issue{
		id: ShellNotFoundId,
		mdMsg: `
# Shell not found!

Could not find a suitable shell for the 'native' runtime.

## Shells we look for:
- Linux/macOS: $SHELL, bash, sh
- Windows: pwsh, powershell, cmd

## Things you can try:
- Install bash or another POSIX shell
- Set the SHELL environment variable
- Use the built-in interpreter instead:
~~~toml
default_runtime = 'virtual'
~~~`,
	}

	commandFailedIssue = &Issue{
		id: CommandFailedId,
		mdMsg: `
# Command failed!

A command in the script exited with an error.

## Common causes:
- Program not found in PATH
- Permission denied
- Syntax error in the command line
- Wrong working directory

## Things you can try:
- Run with verbose mode for more details:
~~~
$ grimoire --verbose run <name>
~~~

- Test the command manually in your shell
- Check the command's directory setting with 'grimoire print'`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the grimoire configuration file.

## Configuration file locations:
- Linux: ~/.config/grimoire/config.toml
- macOS: ~/Library/Application Support/grimoire/config.toml
- Windows: %APPDATA%\grimoire\config.toml

## Things you can try:
- Create a default configuration:
~~~
$ grimoire config init
~~~

- Check the TOML syntax
- Remove the config file to fall back to defaults

## Example configuration:
~~~toml
default_runtime = 'native'
redis_url = ''

[ui]
color_scheme = 'auto'
verbose = false
accessible = false
~~~`,
	}

	serveStartFailedIssue = &Issue{
		id: ServeStartFailedId,
		mdMsg: `
# Cannot start the share server!

The SSH server for sharing scripts failed to start.

## Common causes:
- The port is already in use
- Binding to a privileged port without permission
- The host key could not be created

## Things you can try:
- Pick another port:
~~~
$ grimoire serve --port 2222
~~~

- Bind to a specific interface:
~~~
$ grimoire serve --host 127.0.0.1
~~~

- Check what is listening on the port with ss or lsof`,
	}

	issues = map[Id]*Issue{
		scriptNotFoundIssue.Id():      scriptNotFoundIssue,
		scriptFileNotFoundIssue.Id():  scriptFileNotFoundIssue,
		scriptParseErrorIssue.Id():    scriptParseErrorIssue,
		scriptShapeConflictIssue.Id(): scriptShapeConflictIssue,
		commandNotFoundIssue.Id():     commandNotFoundIssue,
		registryUnavailableIssue.Id(): registryUnavailableIssue,
		shellNotFoundIssue.Id():       shellNotFoundIssue,
		commandFailedIssue.Id():       commandFailedIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		serveStartFailedIssue.Id():    serveStartFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
