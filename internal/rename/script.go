package rename

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dop251/goja"
)

// ScriptTimeout bounds the evaluation of a rename script for one name.
var ScriptTimeout = time.Second

// Script compiles a JavaScript expression into a Rule. The expression sees
// the current file name as name, and its parts as stem and ext; its value is
// the new name, e.g.
//
//	stem.replace("education", "statistical") + ext
func Script(expr string) (Rule, error) {
	prog, err := goja.Compile("rename", expr, true)
	if err != nil {
		return nil, fmt.Errorf("compiling rename script: %w", err)
	}

	return func(name string) (string, error) {
		// A fresh runtime per name keeps scripts from sharing state.
		vm := goja.New()
		timer := time.AfterFunc(ScriptTimeout, func() {
			vm.Interrupt("timed out")
		})
		defer timer.Stop()

		ext := filepath.Ext(name)
		bindings := map[string]string{
			"name": name,
			"stem": strings.TrimSuffix(name, ext),
			"ext":  ext,
		}
		for k, v := range bindings {
			if err := vm.Set(k, v); err != nil {
				return "", fmt.Errorf("binding %s: %w", k, err)
			}
		}

		val, err := vm.RunProgram(prog)
		if err != nil {
			var interrupted *goja.InterruptedError
			if errors.As(err, &interrupted) {
				return "", fmt.Errorf("rename script on %s: %v", name, interrupted.Value())
			}
			return "", fmt.Errorf("rename script on %s: %w", name, err)
		}
		if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
			return "", fmt.Errorf("rename script on %s returned no name", name)
		}

		out := val.String()
		if out == "" || strings.ContainsAny(out, `/\`) {
			return "", fmt.Errorf("rename script on %s returned invalid name %q", name, out)
		}
		return out, nil
	}, nil
}
