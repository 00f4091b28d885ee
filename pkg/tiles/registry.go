package tiles

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/metalmario971/helix/pkg/diag"
	"github.com/metalmario971/helix/pkg/tiled"
)

var (
	ErrNilTileset           = errors.New("nil tileset")
	ErrDuplicateSpecialTile = errors.New("special tile defined more than once")
)

// KeyFrame is one external tile folded into a definition.
type KeyFrame struct {
	Index      int
	ExternalID ExternalID
	Frame      Frame
	Duration   float64
}

// Definition is one named tile.
type Definition struct {
	ID            ID
	Name          string
	KeyExternalID ExternalID
	Kind          Kind
	Class         string
	Layer         LayerID

	Collision        CollisionHandling
	CollisionBits    CollisionBits
	HasCollisionBits bool

	Tiling                    Tiling
	AfterLoad                 string
	Gesture                   string
	Animation                 string
	IsPlayer                  bool
	DefaultCharacterAnimation bool

	KeyFrames []KeyFrame
}

// FrameCount returns the number of key frames.
func (d *Definition) FrameCount() int { return len(d.KeyFrames) }

// CanCollide reports whether the tile blocks movement at all.
func (d *Definition) CanCollide() bool {
	return d.Collision != CollisionNone && d.Collision != CollisionIgnore
}

// EdgeBits returns the colliding edges, every edge when no mask was given.
func (d *Definition) EdgeBits() CollisionBits {
	if !d.HasCollisionBits {
		return CollideAll
	}
	return d.CollisionBits
}

// Options customizes Build.
type Options struct {
	// AfterLoad runs once per definition that carries an after_load source,
	// after every definition and pool is built. Errors are logged.
	AfterLoad func(def *Definition, source string) error
}

// Registry holds every definition of one tileset plus the lookup tables
// from external ids.
type Registry struct {
	atlas Atlas
	defs  []*Definition

	byName   map[string]ID
	lut      map[ExternalID]ID
	frameLUT map[ExternalID]int

	player, border, portal, conduit ID

	spritePools  []*RandomSet[ID]
	spritePoolOf map[ID]int
	framePools   map[ID]*RandomSet[int]
}

type entry struct {
	props Properties
	class string
}

func nameKey(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Build parses ts into a registry. Recoverable problems go to log; only a
// duplicated special tile is fatal.
func Build(ts *tiled.Tileset, opts Options, log *diag.Log) (*Registry, error) {
	if ts == nil {
		return nil, ErrNilTileset
	}
	log = log.With("registry")

	r := &Registry{
		atlas:        NewAtlas(ts),
		byName:       make(map[string]ID),
		lut:          make(map[ExternalID]ID),
		frameLUT:     make(map[ExternalID]int),
		player:       Undefined,
		border:       Undefined,
		portal:       Undefined,
		conduit:      Undefined,
		spritePoolOf: make(map[ID]int),
		framePools:   make(map[ID]*RandomSet[int]),
	}

	entries := r.parseEntries(ts, log)

	// One definition per distinct name, in order of first appearance.
	groups := make(map[string][]*entry)
	var order []string
	for i := range entries {
		k := nameKey(entries[i].props.Name)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], &entries[i])
	}
	for _, k := range order {
		if err := r.addDefinition(keyEntry(groups[k]), log); err != nil {
			return nil, err
		}
	}

	for i := range entries {
		r.addFrame(&entries[i], log)
	}

	if p, ok := ts.Properties.Get(PropRandomSpriteSets); ok {
		r.parseSpriteSets(p.String(), log)
	}
	r.normalizePools(log)

	if opts.AfterLoad != nil {
		for _, d := range r.defs {
			if d.AfterLoad == "" {
				continue
			}
			if err := opts.AfterLoad(d, d.AfterLoad); err != nil {
				log.Errorf("after_load for %q: %v", d.Name, err)
			}
		}
	}

	log.Debugf("registry: %d definitions from %d tileset tiles", len(r.defs), len(ts.Tiles))
	return r, nil
}

func (r *Registry) parseEntries(ts *tiled.Tileset, log *diag.Log) []entry {
	var out []entry
	for _, t := range ts.Tiles {
		ext := ExternalID(t.ID)
		if len(t.Properties) == 0 {
			log.Warnf("tile %d has no properties and will not be used", ext)
			continue
		}
		p := ParseProperties(ext, t.Properties, log)
		if p.Name == "" {
			log.Warnf("tile %d has no name property and will not be used", ext)
			continue
		}
		class := p.Class
		if class == "" {
			class = t.ClassName()
		}
		out = append(out, entry{props: p, class: class})
	}
	return out
}

// keyEntry picks the entry whose attributes describe the whole definition:
// the one marked is_key, otherwise the lowest external id.
func keyEntry(group []*entry) *entry {
	var key *entry
	for _, e := range group {
		if e.props.IsKey {
			return e
		}
		if key == nil || e.props.ExternalID < key.props.ExternalID {
			key = e
		}
	}
	return key
}

func classKind(class string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(class)) {
	case "character":
		return KindCharacter, true
	case "tile", "door", "monstergrass":
		return KindCellTile, true
	case "portaltrigger":
		return KindPortalTrigger, true
	case "areaboundary":
		return KindBorderBlocker, true
	case "conduit":
		return KindConduit, true
	case "ui":
		return KindUI, true
	case "object":
		return KindObject, true
	default:
		return KindCellTile, false
	}
}

func (r *Registry) addDefinition(key *entry, log *diag.Log) error {
	p := key.props
	d := &Definition{
		ID:                        ID(len(r.defs) + 1),
		Name:                      p.Name,
		KeyExternalID:             p.ExternalID,
		Class:                     key.class,
		Layer:                     p.Layer,
		Collision:                 p.Collision,
		CollisionBits:             p.CollisionBits,
		HasCollisionBits:          p.HasCollisionBits,
		Tiling:                    p.Tiling,
		Gesture:                   p.Gesture,
		Animation:                 p.Animation,
		IsPlayer:                  p.IsPlayer,
		DefaultCharacterAnimation: p.DefaultCharacterAnimation,
	}

	kind, ok := classKind(key.class)
	if !ok && key.class != "" {
		log.Errorf("tile %q: unknown class %q, defaulting to Tile", p.Name, key.class)
	}
	d.Kind = kind

	special := func(slot *ID, what string) error {
		if *slot != Undefined {
			return fmt.Errorf("%w: %s tile %q conflicts with %q", ErrDuplicateSpecialTile, what, p.Name, r.defs[*slot-1].Name)
		}
		*slot = d.ID
		return nil
	}
	var err error
	switch kind {
	case KindPortalTrigger:
		err = special(&r.portal, "portal")
	case KindBorderBlocker:
		err = special(&r.border, "border")
	case KindConduit:
		err = special(&r.conduit, "conduit")
	}
	if err != nil {
		return err
	}
	if p.IsPlayer {
		if err := special(&r.player, "player"); err != nil {
			return err
		}
	}

	r.defs = append(r.defs, d)
	r.byName[nameKey(p.Name)] = d.ID
	return nil
}

func (r *Registry) addFrame(e *entry, log *diag.Log) {
	p := e.props
	id := r.byName[nameKey(p.Name)]
	d := r.defs[id-1]

	if prev, dup := r.lut[p.ExternalID]; dup {
		log.Warnf("tile %d is already mapped to %q; keeping the first mapping", p.ExternalID, r.defs[prev-1].Name)
		return
	}

	if p.AfterLoad != "" {
		if d.AfterLoad != "" {
			log.Warnf("%s: after_load was already defined", d.Name)
		} else {
			d.AfterLoad = p.AfterLoad
		}
	}

	w, h := 1, 1
	if p.TilesWidth > 0 {
		w = p.TilesWidth
	}
	if p.TilesHeight > 0 {
		h = p.TilesHeight
	}
	t := r.atlas.FrameTuple(p.ExternalID)
	kf := KeyFrame{
		Index:      len(d.KeyFrames),
		ExternalID: p.ExternalID,
		Frame:      r.atlas.Frame(t.X, t.Y, w, h, DirNone),
		Duration:   p.Duration,
	}
	d.KeyFrames = append(d.KeyFrames, kf)

	if p.RandomProbElement > 0 {
		fp := r.framePools[id]
		if fp == nil {
			fp = &RandomSet[int]{}
			r.framePools[id] = fp
		}
		fp.Add(kf.Index, p.RandomProbElement)
	}

	r.lut[p.ExternalID] = id
	r.frameLUT[p.ExternalID] = kf.Index
}

type weightedName struct {
	name   string
	weight float64
}

// decodeSpriteSets decodes a JSON list of {name: weight} objects keeping
// each object's key order.
func decodeSpriteSets(s string) ([][]weightedName, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}
	var sets [][]weightedName
	for dec.More() {
		if err := expectDelim(dec, '{'); err != nil {
			return nil, err
		}
		var set []weightedName
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			name, ok := tok.(string)
			if !ok {
				return nil, fmt.Errorf("expected name, got %v", tok)
			}
			var w float64
			if err := dec.Decode(&w); err != nil {
				return nil, fmt.Errorf("weight for %q: %w", name, err)
			}
			set = append(set, weightedName{name, w})
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after sprite sets")
	}
	return sets, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func (r *Registry) parseSpriteSets(s string, log *diag.Log) {
	if strings.TrimSpace(s) == "" {
		return
	}
	sets, err := decodeSpriteSets(s)
	if err != nil {
		log.Errorf("random sprite sets are not valid JSON %q: %v", s, err)
		return
	}
	for _, set := range sets {
		rs := &RandomSet[ID]{}
		idx := len(r.spritePools)
		r.spritePools = append(r.spritePools, rs)
		for _, wn := range set {
			d := r.ByName(wn.name)
			if d == nil {
				log.Errorf("sprite %q could not be found when creating random set", wn.name)
				continue
			}
			rs.Add(d.ID, wn.weight)
			if _, ok := r.spritePoolOf[d.ID]; !ok {
				r.spritePoolOf[d.ID] = idx
			}
		}
	}
}

func (r *Registry) normalizePools(log *diag.Log) {
	for i, rs := range r.spritePools {
		if !rs.Normalize() {
			log.Warnf("random sprite set %d has no selectable members", i)
		}
	}
	ids := make([]ID, 0, len(r.framePools))
	for id := range r.framePools {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if !r.framePools[id].Normalize() {
			log.Warnf("random frame set of %q has no selectable frames", r.defs[id-1].Name)
		}
	}
}

// Len returns the number of definitions.
func (r *Registry) Len() int { return len(r.defs) }

// Definitions returns every definition ordered by id.
func (r *Registry) Definitions() []*Definition { return r.defs }

// Atlas returns the tileset image layout.
func (r *Registry) Atlas() Atlas { return r.atlas }

// Get returns the definition for id, or nil.
func (r *Registry) Get(id ID) *Definition {
	if id <= 0 || int(id) > len(r.defs) {
		return nil
	}
	return r.defs[id-1]
}

// ByName returns the definition called name, ignoring case and surrounding
// whitespace, or nil.
func (r *Registry) ByName(name string) *Definition {
	id, ok := r.byName[nameKey(name)]
	if !ok {
		return nil
	}
	return r.defs[id-1]
}

// Lookup maps an external id to its internal id.
func (r *Registry) Lookup(ext ExternalID) (ID, bool) {
	id, ok := r.lut[ext]
	return id, ok
}

// FrameIndex returns the key frame an external id was folded into, or 0.
func (r *Registry) FrameIndex(ext ExternalID) int {
	return r.frameLUT[ext]
}

// PlayerID returns the player tile id, or Undefined.
func (r *Registry) PlayerID() ID { return r.player }

// BorderID returns the area boundary tile id, or Undefined.
func (r *Registry) BorderID() ID { return r.border }

// PortalID returns the portal trigger tile id, or Undefined.
func (r *Registry) PortalID() ID { return r.portal }

// ConduitID returns the conduit tile id, or Undefined.
func (r *Registry) ConduitID() ID { return r.conduit }

// SpritePool returns the first random sprite set containing id, or nil.
func (r *Registry) SpritePool(id ID) *RandomSet[ID] {
	i, ok := r.spritePoolOf[id]
	if !ok {
		return nil
	}
	return r.spritePools[i]
}

// SpritePools returns every random sprite set in declaration order.
func (r *Registry) SpritePools() []*RandomSet[ID] { return r.spritePools }

// FramePool returns the random frame set of id, or nil.
func (r *Registry) FramePool(id ID) *RandomSet[int] {
	return r.framePools[id]
}
