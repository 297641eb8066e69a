// Package all registers all shell commands.
package all

import (
	_ "github.com/robotalks/companion.go/pkg/cli/cmds/device"
	_ "github.com/robotalks/companion.go/pkg/cli/cmds/http"
	_ "github.com/robotalks/companion.go/pkg/cli/cmds/mqtt"
	_ "github.com/robotalks/companion.go/pkg/cli/cmds/wifi"
)
