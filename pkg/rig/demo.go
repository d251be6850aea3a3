package rig

// MannequinDesc returns the description of a simple humanoid skeleton, 20
// units tall, standing on the XZ plane and facing +Z.
func MannequinDesc() SkeletonDesc {
	return SkeletonDesc{Joints: []JointDesc{
		{Name: "hips", Translation: [3]float64{0, 10, 0}},
		{Name: "spine", Parent: "hips", Translation: [3]float64{0, 2, 0}},
		{Name: "chest", Parent: "spine", Translation: [3]float64{0, 2.5, 0}},
		{Name: "neck", Parent: "chest", Translation: [3]float64{0, 2.5, 0}},
		{Name: "head", Parent: "neck", Translation: [3]float64{0, 1, 0}},
		{Name: "head_end", Parent: "head", Translation: [3]float64{0, 2, 0}},

		{Name: "l_shoulder", Parent: "chest", Translation: [3]float64{1.8, 2, 0}},
		{Name: "l_elbow", Parent: "l_shoulder", Translation: [3]float64{3, 0, 0}},
		{Name: "l_wrist", Parent: "l_elbow", Translation: [3]float64{2.7, 0, 0}},
		{Name: "r_shoulder", Parent: "chest", Translation: [3]float64{-1.8, 2, 0}},
		{Name: "r_elbow", Parent: "r_shoulder", Translation: [3]float64{-3, 0, 0}},
		{Name: "r_wrist", Parent: "r_elbow", Translation: [3]float64{-2.7, 0, 0}},

		{Name: "l_hip", Parent: "hips", Translation: [3]float64{1.1, -0.5, 0}},
		{Name: "l_knee", Parent: "l_hip", Translation: [3]float64{0, -4.5, 0}},
		{Name: "l_ankle", Parent: "l_knee", Translation: [3]float64{0, -4.5, 0}},
		{Name: "l_toe", Parent: "l_ankle", Translation: [3]float64{0, -0.5, 1.5}},
		{Name: "r_hip", Parent: "hips", Translation: [3]float64{-1.1, -0.5, 0}},
		{Name: "r_knee", Parent: "r_hip", Translation: [3]float64{0, -4.5, 0}},
		{Name: "r_ankle", Parent: "r_knee", Translation: [3]float64{0, -4.5, 0}},
		{Name: "r_toe", Parent: "r_ankle", Translation: [3]float64{0, -0.5, 1.5}},
	}}
}

// Mannequin builds the skeleton described by MannequinDesc.
func Mannequin() *Skeleton {
	s, findings := BuildSkeleton(MannequinDesc())
	if HasErrors(findings) {
		panic("rig: invalid mannequin description: " + findings[0].Error())
	}
	return s
}
