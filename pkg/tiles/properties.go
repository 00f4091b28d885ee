package tiles

import (
	"strconv"
	"strings"

	"github.com/metalmario971/helix/pkg/diag"
	"github.com/metalmario971/helix/pkg/tiled"
)

// Recognized per-tile property names.
const (
	PropAfterLoad                 = "after_load"
	PropAnimation                 = "animation"
	PropClass                     = "class"
	PropCollision                 = "collision"
	PropCollisionBits             = "collision_bits"
	PropDefaultCharacterAnimation = "default_character_animation"
	PropFrameIndex                = "frame_index"
	PropGesture                   = "gesture"
	PropIsKey                     = "is_key"
	PropIsPlayer                  = "is_player"
	PropLayer                     = "layer"
	PropDuration                  = "duration"
	PropName                      = "name"
	PropTiling                    = "tiling"
	PropRandomProbElement         = "random_prob_element"
	PropTilesWidth                = "tiles_width"
	PropTilesHeight               = "tiles_height"

	// PropRandomSpriteSets is a tileset-level property.
	PropRandomSpriteSets = "random_sprite_sets"
)

// Properties is the typed form of one tile entry's property list. Optional
// values carry a Has flag so an absent value is distinguishable from zero.
type Properties struct {
	ExternalID ExternalID

	Name      string
	Class     string
	AfterLoad string
	Animation string
	Gesture   string

	Collision    CollisionHandling
	HasCollision bool

	CollisionBits    CollisionBits
	HasCollisionBits bool

	Tiling    Tiling
	HasTiling bool

	Layer LayerID

	FrameIndex    int
	HasFrameIndex bool

	DefaultCharacterAnimation bool
	IsKey                     bool
	IsPlayer                  bool

	Duration          float64
	RandomProbElement float64
	TilesWidth        int
	TilesHeight       int
}

// ParseProperties reads a property list in one pass. Names are matched
// trimmed and case-insensitively; unknown names are skipped. A malformed
// value is logged and leaves its field unset.
func ParseProperties(ext ExternalID, props tiled.Properties, log *diag.Log) Properties {
	p := Properties{ExternalID: ext, Layer: LayerUnset}

	for _, prop := range props {
		raw := strings.TrimSpace(prop.String())
		name := strings.ToLower(strings.TrimSpace(prop.Name))
		bad := func(err error) {
			log.Errorf("tile %d: property %s: %v", ext, name, err)
		}

		switch name {
		case PropName:
			p.Name = raw
		case PropClass:
			p.Class = raw
		case PropAfterLoad:
			p.AfterLoad = raw
		case PropAnimation:
			p.Animation = raw
		case PropGesture:
			p.Gesture = raw
		case PropCollision:
			c, err := ParseCollisionHandling(raw)
			if err != nil {
				bad(err)
				continue
			}
			p.Collision, p.HasCollision = c, true
		case PropCollisionBits:
			b, err := ParseCollisionBits(raw)
			if err != nil {
				bad(err)
				continue
			}
			p.CollisionBits, p.HasCollisionBits = b, true
		case PropTiling:
			t, err := ParseTiling(raw)
			if err != nil {
				bad(err)
				continue
			}
			p.Tiling, p.HasTiling = t, true
		case PropLayer:
			l, err := ParseLayer(raw)
			if err != nil {
				bad(err)
				continue
			}
			p.Layer = l
		case PropFrameIndex:
			n, err := strconv.Atoi(raw)
			if err != nil {
				bad(err)
				continue
			}
			p.FrameIndex, p.HasFrameIndex = n, true
		case PropDefaultCharacterAnimation:
			p.DefaultCharacterAnimation = parseBool(raw, bad)
		case PropIsKey:
			p.IsKey = parseBool(raw, bad)
		case PropIsPlayer:
			p.IsPlayer = parseBool(raw, bad)
		case PropDuration:
			p.Duration = parseFloat(raw, bad)
		case PropRandomProbElement:
			p.RandomProbElement = parseFloat(raw, bad)
		case PropTilesWidth:
			p.TilesWidth = int(parseFloat(raw, bad))
		case PropTilesHeight:
			p.TilesHeight = int(parseFloat(raw, bad))
		}
	}
	return p
}

func parseBool(s string, bad func(error)) bool {
	v, err := strconv.ParseBool(s)
	if err != nil {
		bad(err)
		return false
	}
	return v
}

func parseFloat(s string, bad func(error)) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		bad(err)
		return 0
	}
	return v
}
