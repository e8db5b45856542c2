package difficulty

const (
	HitFadeIn = 400.0

	PreemptMax = 1800.0
	PreemptMid = 1200.0
	PreemptMin = 450.0
)

// Difficulty holds base map settings and everything derived from them under a mod combination.
// Fields with U suffix are in unscaled map time / osu!pixels.
type Difficulty struct {
	baseHP, baseCS, baseOD, baseAR float64

	Mods Modifier

	HP, CS, OD, AR float64

	Speed       float64
	customSpeed float64

	PreemptU   float64
	TimeFadeIn float64

	CircleRadiusU float64

	Hit50U  float64
	Hit100U float64
	Hit300U float64

	ARReal float64
	ODReal float64
}

func NewDifficulty(hp, cs, od, ar float64) *Difficulty {
	diff := &Difficulty{
		baseHP: hp,
		baseCS: cs,
		baseOD: od,
		baseAR: ar,
		Speed:  1,
	}

	diff.calculate()

	return diff
}

func (diff *Difficulty) calculate() {
	hp, cs, od, ar := diff.baseHP, diff.baseCS, diff.baseOD, diff.baseAR

	if diff.Mods.Active(HardRock) {
		hp = min(hp*1.4, 10)
		cs = min(cs*1.3, 10)
		od = min(od*1.4, 10)
		ar = min(ar*1.4, 10)
	}

	if diff.Mods.Active(Easy) {
		hp /= 2
		cs /= 2
		od /= 2
		ar /= 2
	}

	diff.HP, diff.CS, diff.OD, diff.AR = hp, cs, od, ar

	diff.CircleRadiusU = 54.4 - 4.48*cs

	diff.PreemptU = DifficultyRate(ar, PreemptMax, PreemptMid, PreemptMin)
	diff.TimeFadeIn = HitFadeIn * min(1, diff.PreemptU/PreemptMin)

	diff.Hit300U = 80 - 6*od
	diff.Hit100U = 140 - 8*od
	diff.Hit50U = 200 - 10*od

	diff.Speed = 1.0

	switch {
	case diff.customSpeed > 0:
		diff.Speed = diff.customSpeed
	case diff.Mods.Active(DoubleTime | Nightcore):
		diff.Speed = 1.5
	case diff.Mods.Active(HalfTime):
		diff.Speed = 0.75
	}

	diff.ARReal = PreemptToAR(diff.PreemptU / diff.Speed)
	diff.ODReal = (80 - diff.Hit300U/diff.Speed) / 6
}

func (diff *Difficulty) SetMods(mods Modifier) {
	diff.Mods = mods
	diff.calculate()
}

// SetCustomSpeed overrides the clock rate implied by DT/HT. Values <= 0 restore the mod default.
func (diff *Difficulty) SetCustomSpeed(speed float64) {
	diff.customSpeed = speed
	diff.calculate()
}

func (diff *Difficulty) CheckModActive(mods Modifier) bool {
	return diff.Mods.Active(mods)
}

// DifficultyRate maps a 0-10 difficulty setting onto a range through a midpoint at 5
func DifficultyRate(diff, minV, midV, maxV float64) float64 {
	if diff > 5 {
		return midV + (maxV-midV)*(diff-5)/5
	}

	if diff < 5 {
		return midV - (midV-minV)*(5-diff)/5
	}

	return midV
}

func PreemptToAR(preempt float64) float64 {
	if preempt > PreemptMid {
		return (PreemptMax - preempt) / 120
	}

	return (PreemptMid-preempt)/150 + 5
}

// HitWindows returns ±ms windows for 300, 100 and 50 judgements at the given (rate-adjusted) OD
func HitWindows(od float64) (w300, w100, w50 float64) {
	return 80 - 6*od, 140 - 8*od, 200 - 10*od
}
