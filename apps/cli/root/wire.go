package root

import (
	permissionscmd "github.com/zenGate-Global/haulage-backoffice/apps/cli/cmd/permissions"
	"github.com/zenGate-Global/haulage-backoffice/apps/cli/cmd/registry"
	tenantcmd "github.com/zenGate-Global/haulage-backoffice/apps/cli/cmd/tenant"
)

func init() {
	Root().AddCommand(registry.Command())
	Root().AddCommand(tenantcmd.Command())
	Root().AddCommand(permissionscmd.Command())
}
