package raster

import (
	"github.com/Faultbox/midgard-shade/internal/engine/vertex"
)

// NearEpsilon is the smallest clip-space w a vertex may keep after clipping.
const NearEpsilon float32 = 1e-5

// clipNear clips a triangle against the plane w = NearEpsilon and returns
// the surviving polygon as a triangle fan. Fully visible triangles are
// returned unchanged.
func clipNear(tri [3]*vertex.Output) [][3]vertex.Output {
	inside := 0
	for _, v := range tri {
		if v.Clip.W > NearEpsilon {
			inside++
		}
	}
	switch inside {
	case 0:
		return nil
	case 3:
		return [][3]vertex.Output{{*tri[0], *tri[1], *tri[2]}}
	}

	poly := make([]vertex.Output, 0, 4)
	prev := tri[2]
	prevIn := prev.Clip.W > NearEpsilon
	for _, cur := range tri {
		curIn := cur.Clip.W > NearEpsilon
		if curIn != prevIn {
			t := (NearEpsilon - prev.Clip.W) / (cur.Clip.W - prev.Clip.W)
			poly = append(poly, vertex.Lerp(prev, cur, t))
		}
		if curIn {
			poly = append(poly, *cur)
		}
		prev, prevIn = cur, curIn
	}

	out := make([][3]vertex.Output, 0, len(poly)-2)
	for i := 1; i+1 < len(poly); i++ {
		out = append(out, [3]vertex.Output{poly[0], poly[i], poly[i+1]})
	}
	return out
}
