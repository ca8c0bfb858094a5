/*
Copyright 2026 The finest-grained-auth-proxy Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package github

import (
	"fmt"

	"github.com/delight-co/finest-grained-auth-proxy/internal/executor"
	"github.com/delight-co/finest-grained-auth-proxy/internal/plugin"
)

// flagSet is a minimal long-flag parser for the intercepted GitHub command
// trees. It does not use the standard library's flag package because these
// argument vectors are fragments of a larger gh invocation (positional args
// interleaved with flags in caller-chosen order) rather than a whole
// program's os.Args, which flag.FlagSet assumes.
type flagSet struct {
	values map[string]string
	bools  map[string]bool
	args   []string
}

// parseFlags walks argv, treating any "--name" token as a flag. boolFlags
// names flags that take no value (e.g. --replace-all); everything else
// consumes the following token as its value, even when that token itself
// starts with "--". Returns an error result when a non-bool flag is the
// last token.
func parseFlags(argv []string, boolFlags map[string]bool) (*flagSet, *plugin.CommandResult) {
	fs := &flagSet{values: map[string]string{}, bools: map[string]bool{}}
	for i := 0; i < len(argv); i++ {
		tok := argv[i]
		if len(tok) < 2 || tok[:2] != "--" {
			fs.args = append(fs.args, tok)
			continue
		}
		name := tok[2:]
		if boolFlags[name] {
			fs.bools[name] = true
			continue
		}
		if i+1 >= len(argv) {
			res := fail(fmt.Sprintf("--%s requires a value", name))
			return nil, &res
		}
		i++
		fs.values[name] = argv[i]
	}
	return fs, nil
}

func (f *flagSet) get(name string) (string, bool) {
	v, ok := f.values[name]
	return v, ok
}

func (f *flagSet) bool(name string) bool { return f.bools[name] }

// fail builds the standard "intercepted command failed" envelope: exit 1,
// empty stdout, the message on stderr.
func fail(message string) plugin.CommandResult {
	return plugin.Handled(executor.Result{ExitCode: 1, Stdout: "", Stderr: message})
}

// ok builds the standard "intercepted command succeeded" envelope.
func ok(stderr string) plugin.CommandResult {
	return plugin.Handled(executor.Result{ExitCode: 0, Stdout: "", Stderr: stderr})
}

// okStdout is like ok but carries output on stdout (list/view style
// commands that render content rather than a confirmation message).
func okStdout(stdout string) plugin.CommandResult {
	return plugin.Handled(executor.Result{ExitCode: 0, Stdout: stdout, Stderr: ""})
}
