package manip

// DefaultScale is the base manipulator scale when none is configured.
const DefaultScale = 5.0

// AdjustmentConstant converts skeleton units into handle scale.
const AdjustmentConstant = 0.1

// Bounds of the auto-adjusted joint length ratio.
const (
	MinLengthRatio = 0.25
	MaxLengthRatio = 1.0
)

// LengthRatio maps a joint's own longest child segment into
// [MinLengthRatio, MaxLengthRatio] relative to the skeleton's longest
// segment. With auto-adjust off, or no segments at all, the ratio is 1.
func LengthRatio(own, longest float64, autoAdjust bool) float64 {
	if !autoAdjust || longest <= 0 {
		return MaxLengthRatio
	}
	raw := min(max(own/longest, 0), 1)
	return MinLengthRatio + (MaxLengthRatio-MinLengthRatio)*raw
}

// AdjustedScale is base × AdjustmentConstant × longest × ratio. A skeleton
// without segments counts as one unit long.
func AdjustedScale(base, longest, ratio float64) float64 {
	if longest <= 0 {
		longest = 1
	}
	return base * AdjustmentConstant * longest * ratio
}
