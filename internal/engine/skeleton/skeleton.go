// Package skeleton implements the skeletal skinning stage.
package skeleton

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-shade/internal/engine/model"
	"github.com/Faultbox/midgard-shade/pkg/math"
)

// MaxJoints is the joint capacity of the skeleton uniform.
const MaxJoints = 256

// ErrTooManyJoints is returned when a pose has more joints than MaxJoints.
var ErrTooManyJoints = errors.New("too many joints")

// State is the per-frame joint transform snapshot. Slots past Count are
// zero. A zero Count disables skinning.
type State struct {
	Joints [MaxJoints]math.Mat4
	Count  int
}

// NewState copies joint transforms into a fixed-capacity state.
func NewState(joints []math.Mat4) (*State, error) {
	if len(joints) > MaxJoints {
		return nil, fmt.Errorf("skeleton with %d joints (max %d): %w", len(joints), MaxJoints, ErrTooManyJoints)
	}
	s := &State{Count: len(joints)}
	copy(s.Joints[:], joints)
	return s, nil
}

// Pose evaluates a joint hierarchy at time t into a state.
func Pose(joints []model.Joint, t float32) (*State, error) {
	if len(joints) > MaxJoints {
		return nil, fmt.Errorf("skeleton with %d joints (max %d): %w", len(joints), MaxJoints, ErrTooManyJoints)
	}
	return NewState(model.BuildJointMatrices(joints, t))
}

// Active reports whether the state skins vertices.
func (s *State) Active() bool {
	return s != nil && s.Count > 0
}

// Skin blends up to four joint transforms into the local frame by the
// vertex weights, used as given. Position accumulates homogeneously so W
// carries the weight sum. Directions are transformed with w=0. With no
// active joints the frame is returned unchanged.
func Skin(s *State, v *model.Vertex, in model.Frame) model.Frame {
	if !s.Active() {
		return in
	}

	var out model.Frame
	for i := 0; i < model.JointsPerVertex; i++ {
		j := v.Joints[i]
		if j >= MaxJoints {
			continue
		}
		w := v.Weights[i]
		m := &s.Joints[j]
		out.Position = out.Position.Add(m.MulVec4(in.Position).Scale(w))
		out.Normal = out.Normal.Add(m.TransformDirection(in.Normal).Scale(w))
		out.Tangent = out.Tangent.Add(m.TransformDirection(in.Tangent).Scale(w))
		out.Bitangent = out.Bitangent.Add(m.TransformDirection(in.Bitangent).Scale(w))
	}
	return out
}
