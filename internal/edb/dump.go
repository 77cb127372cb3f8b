package edb

import (
	"strings"
	"unicode/utf8"

	"github.com/emirpasic/gods/maps/treemap"

	"github.com/roach88/eavstore/internal/ir"
)

// Dump renders the local facts as an indented entity/attribute/value listing.
//
//	alice age 30
//	      tag admin
//	          staff
//	bob age 25
//
// Each entity starts a line with its first attribute and value. Further
// attributes are indented to the attribute column and further values to the
// value column of their attribute. Tombstones and zero leaves are skipped, as are attributes
// and entities without live values. The output is for humans only.
func (b *EDB) Dump() string {
	var out strings.Builder

	eachLevel(b.eav, func(e ir.Value, al *treemap.Map) bool {
		entity := e.String() + " "
		attrCol := utf8.RuneCountInString(entity)
		first := true

		eachLevel(al, func(a ir.Value, vl *treemap.Map) bool {
			var values []ir.Value
			b.eachLive(vl, func(v ir.Value, _ handle) bool {
				values = append(values, v)
				return true
			})
			if len(values) == 0 {
				return true
			}

			attr := a.String() + " "
			valueCol := attrCol + utf8.RuneCountInString(attr)

			for i, v := range values {
				switch {
				case i > 0:
					out.WriteString(strings.Repeat(" ", valueCol))
				case first:
					out.WriteString(entity)
					out.WriteString(attr)
				default:
					out.WriteString(strings.Repeat(" ", attrCol))
					out.WriteString(attr)
				}
				out.WriteString(v.String())
				out.WriteByte('\n')
			}
			first = false
			return true
		})
		return true
	})

	return out.String()
}
