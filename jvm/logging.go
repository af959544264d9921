package jvm

import (
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

// log is shared by every Thread and ThreadPool for transition and
// scheduling diagnostics, matching server/lsp.go's commonlog wiring (the
// simple backend is registered via blank import; callers select it with
// commonlog.SetLogger or leave the default null implementation in place).
var log = commonlog.GetLogger("jvm")
