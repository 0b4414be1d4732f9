package chile

import (
	"time"

	"github.com/warp/holiday-engine/generic"
)

const (
	AricaID     = "CL-AP"
	AricaRegion = "Chile/AricaAndParinacota"
)

// AricaAndParinacota computes holidays of the XV Arica and Parinacota
// Region, operational since October 8, 2007 (Law 20,175): every national
// holiday plus the anniversary of the Battle of Arica.
type AricaAndParinacota struct {
	parent *Chile
}

var _ generic.Provider = (*AricaAndParinacota)(nil)

// NewAricaAndParinacota returns the region provider extending parent.
func NewAricaAndParinacota(parent *Chile) *AricaAndParinacota {
	return &AricaAndParinacota{parent: parent}
}

func (a *AricaAndParinacota) ID() string       { return AricaID }
func (a *AricaAndParinacota) Region() string   { return AricaRegion }
func (a *AricaAndParinacota) Timezone() string { return Timezone }

func (a *AricaAndParinacota) Holidays(p generic.Params) (*generic.Set, error) {
	national, err := a.parent.Holidays(p)
	if err != nil {
		return nil, err
	}
	set := generic.Extend(national, AricaRegion)
	if err := set.Add(battleOfArica(set.Scope())...); err != nil {
		return nil, err
	}
	return set, nil
}

// The Battle of Arica (Assault and Capture of Cape Arica) was fought on
// 7 June 1880 in the War of the Pacific. Regional holiday since 2013.
func battleOfArica(s generic.Scope) []generic.Holiday {
	if s.Year < 2013 {
		return nil
	}
	return []generic.Holiday{s.NewHoliday("battleOfArica", localNames("Battle of Arica", "Aniversario del Asalto y Toma del Morro de Arica"), s.Date(time.June, 7), generic.TypeOfficial)}
}
