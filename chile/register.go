package chile

import "github.com/warp/holiday-engine/generic"

// Register adds the Chilean providers to reg.
func Register(reg *generic.Registry, names generic.Translator) error {
	national := New(names)
	return reg.Register(national, NewAricaAndParinacota(national))
}
