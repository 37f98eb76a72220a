// Package material resolves material parameters and the optional texture
// channels a material binds.
package material

import "strings"

// Channel is the bit index of an optional texture slot.
type Channel uint32

const (
	ChannelAmbient Channel = iota
	ChannelBase
	ChannelSpecular
	ChannelNormal
	ChannelAlpha
	ChannelRoughness
	ChannelAmbientOcclusion
	ChannelReflectivity
	ChannelShininess
	ChannelEnvironment
	ChannelCustom0
	ChannelCustom1
	ChannelCustom2
	ChannelCustom3
	ChannelDepth

	// NumChannels is the number of texture slots a material exposes.
	NumChannels
)

var channelNames = [NumChannels]string{
	"ambient", "base", "specular", "normal", "alpha", "roughness",
	"ambient_occlusion", "reflectivity", "shininess", "environment",
	"custom0", "custom1", "custom2", "custom3", "depth",
}

// String returns the channel name.
func (c Channel) String() string {
	if c < NumChannels {
		return channelNames[c]
	}
	return "unknown"
}

// ParseChannel looks a channel up by name.
func ParseChannel(name string) (Channel, bool) {
	for i, n := range channelNames {
		if strings.EqualFold(n, name) {
			return Channel(i), true
		}
	}
	return 0, false
}

// Flags is the textures-used bitmask.
type Flags uint32

// HasChannel tests a single bit of the textures-used mask.
func HasChannel(flags Flags, bit Channel) bool {
	return flags&(1<<bit) != 0
}

// Encode builds a mask from a set of channels.
func Encode(channels ...Channel) Flags {
	var f Flags
	for _, c := range channels {
		f |= 1 << c
	}
	return f
}

// Has reports whether the channel's bit is set.
func (f Flags) Has(c Channel) bool {
	return HasChannel(f, c)
}

// Channels decodes the mask into channels in bit order. Bits beyond the
// known channels are ignored.
func (f Flags) Channels() []Channel {
	var out []Channel
	for c := Channel(0); c < NumChannels; c++ {
		if f.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// String lists the set channels.
func (f Flags) String() string {
	names := make([]string, 0, NumChannels)
	for _, c := range f.Channels() {
		names = append(names, c.String())
	}
	return strings.Join(names, "|")
}
