package influence

import (
	"github.com/chazu/mannequin/pkg/rig"
)

// Entry is what the joint index records for one influence joint.
type Entry struct {
	Influence int   // index into the skin's influence objects
	Styles    Style // styles the joint may be presented with
}

// JointIndex maps influence joints to their influence index and styles.
type JointIndex struct {
	entries map[rig.JointID]Entry
	order   []rig.JointID
	longest float64
}

// BuildJointIndex classifies each influence of skin. A joint with children is
// ROTATE only; a leaf is TRANSLATE only, or ROTATE|TRANSLATE when leafStyles
// is set. It also records the longest child segment over all influences.
func BuildJointIndex(skin rig.SkinBindingProvider, skel rig.SkeletonProvider, leafStyles bool) *JointIndex {
	objs := skin.InfluenceObjects()
	x := &JointIndex{
		entries: make(map[rig.JointID]Entry, len(objs)),
		order:   objs,
	}
	for i, id := range objs {
		style := StyleRotate
		if len(skel.ChildJoints(id)) == 0 {
			style = StyleTranslate
			if leafStyles {
				style |= StyleRotate
			}
		}
		x.entries[id] = Entry{Influence: i, Styles: style}
		x.longest = max(x.longest, ChildSegment(skel, id))
	}
	return x
}

// ChildSegment returns the longest local translation among id's children.
// The joint's own offset from its parent is not considered.
func ChildSegment(skel rig.SkeletonProvider, id rig.JointID) float64 {
	var longest float64
	for _, c := range skel.ChildJoints(id) {
		longest = max(longest, skel.LocalTranslation(c).Length())
	}
	return longest
}

// Lookup returns the entry for an influence joint.
func (x *JointIndex) Lookup(id rig.JointID) (Entry, bool) {
	e, ok := x.entries[id]
	return e, ok
}

// Joint returns the joint bound at an influence index.
func (x *JointIndex) Joint(influence int) (rig.JointID, bool) {
	if influence < 0 || influence >= len(x.order) {
		return rig.NoJoint, false
	}
	return x.order[influence], true
}

// Joints returns the influence joints in binding order.
func (x *JointIndex) Joints() []rig.JointID {
	return append([]rig.JointID(nil), x.order...)
}

// Len returns the number of influences.
func (x *JointIndex) Len() int { return len(x.order) }

// LongestSegment returns the longest child segment over all influences.
func (x *JointIndex) LongestSegment() float64 { return x.longest }

// Find resolves an influence by full path or by short name. A short name
// matches the first influence, in binding order, with that name.
func (x *JointIndex) Find(name string) (rig.JointID, bool) {
	if _, ok := x.entries[rig.JointID(name)]; ok {
		return rig.JointID(name), true
	}
	for _, id := range x.order {
		if id.Name() == name {
			return id, true
		}
	}
	return rig.NoJoint, false
}
