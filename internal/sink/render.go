// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package sink

import (
	"fmt"
	"strings"

	"grimm.is/haplane/internal/resources"
)

// RenderCRM renders the resource set as crm configure syntax. Output is a
// pure function of the set so repeated renders are byte-identical, which
// keeps `crm configure load update` a no-op when nothing changed.
func RenderCRM(set *resources.Set) string {
	var b strings.Builder

	for _, p := range set.Primitives {
		b.WriteString("primitive ")
		b.WriteString(p.Key)
		b.WriteByte(' ')
		b.WriteString(p.Agent)
		if len(p.Params) > 0 {
			b.WriteString(" params")
			for _, param := range p.Params {
				fmt.Fprintf(&b, " %s=%q", param.Key, param.Value)
			}
		}
		for _, op := range p.Ops {
			b.WriteString(" op ")
			b.WriteString(op)
		}
		b.WriteByte('\n')
	}

	for _, c := range set.Clones {
		fmt.Fprintf(&b, "clone %s %s\n", c.Key, c.Target)
	}

	return b.String()
}
