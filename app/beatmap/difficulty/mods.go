package difficulty

import (
	"fmt"
	"strings"
)

type Modifier int64

const (
	None        Modifier = 0
	NoFail      Modifier = 1 << 0
	Easy        Modifier = 1 << 1
	TouchDevice Modifier = 1 << 2
	Hidden      Modifier = 1 << 3
	HardRock    Modifier = 1 << 4
	SuddenDeath Modifier = 1 << 5
	DoubleTime  Modifier = 1 << 6
	Relax       Modifier = 1 << 7
	HalfTime    Modifier = 1 << 8
	Nightcore   Modifier = 1 << 9
	Flashlight  Modifier = 1 << 10
	Autoplay    Modifier = 1 << 11
	SpunOut     Modifier = 1 << 12
	Relax2      Modifier = 1 << 13
	Perfect     Modifier = 1 << 14
	ScoreV2     Modifier = 1 << 29
	Lazer       Modifier = 1 << 32

	// DifficultyAdjustMask contains mods that change star rating
	DifficultyAdjustMask = Easy | TouchDevice | Hidden | HardRock | DoubleTime | Relax | HalfTime | Nightcore | Flashlight | Relax2
)

var modNames = []struct {
	mod  Modifier
	name string
}{
	{NoFail, "NF"},
	{Easy, "EZ"},
	{TouchDevice, "TD"},
	{Hidden, "HD"},
	{HardRock, "HR"},
	{SuddenDeath, "SD"},
	{DoubleTime, "DT"},
	{Relax, "RX"},
	{HalfTime, "HT"},
	{Nightcore, "NC"},
	{Flashlight, "FL"},
	{Autoplay, "AT"},
	{SpunOut, "SO"},
	{Relax2, "AP"},
	{Perfect, "PF"},
	{ScoreV2, "V2"},
	{Lazer, "LZ"},
}

// Active reports whether any of the bits in mod are set
func (mods Modifier) Active(mod Modifier) bool {
	return mods&mod > 0
}

func (mods Modifier) String() string {
	var sb strings.Builder

	for _, m := range modNames {
		if mods&m.mod == 0 {
			continue
		}

		// NC implies DT and PF implies SD, don't print both
		if (m.mod == DoubleTime && mods.Active(Nightcore)) || (m.mod == SuddenDeath && mods.Active(Perfect)) {
			continue
		}

		sb.WriteString(m.name)
	}

	return sb.String()
}

// ParseMods parses an acronym string like "HDDT" or "hd,hr". "NM" and empty string yield None.
func ParseMods(s string) (Modifier, error) {
	s = strings.ToUpper(strings.NewReplacer(",", "", " ", "", "+", "").Replace(s))

	if s == "" || s == "NM" {
		return None, nil
	}

	if len(s)%2 != 0 {
		return None, fmt.Errorf("invalid mod string %q", s)
	}

	mods := None

outer:
	for i := 0; i < len(s); i += 2 {
		acronym := s[i : i+2]

		for _, m := range modNames {
			if m.name == acronym {
				mods |= m.mod

				switch m.mod {
				case Nightcore:
					mods |= DoubleTime
				case Perfect:
					mods |= SuddenDeath
				}

				continue outer
			}
		}

		return None, fmt.Errorf("unknown mod %q", acronym)
	}

	return mods, nil
}

// GetDiffMaskedMods strips mods that don't affect difficulty
func GetDiffMaskedMods(mods Modifier) Modifier {
	return mods & DifficultyAdjustMask
}
