package game

import (
	"fmt"
	"time"

	"github.com/tomz197/invaders/internal/level"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/physics"
)

// gridCellSize covers the largest rocket or invader dimension.
const gridCellSize = object.RocketHeight

// Play is one level of battle. Its entities live only as long as the level.
type Play struct {
	Level  int
	Params level.Params

	Ship     *object.Ship
	Invaders []*object.Invader
	Rockets  []*object.Rocket
	Bombs    []*object.Bomb

	bounds    physics.Rect
	formation formation
	grid      *physics.SpatialGrid
	front     []*object.Invader // Front-rank invader per file, rebuilt each tick
	lastFire  time.Time
}

// NewPlay returns the battle for level. Entities are created when it is entered.
func NewPlay(lvl int) *Play {
	return &Play{Level: lvl}
}

// Name returns "play".
func (*Play) Name() string { return "play" }

func (p *Play) enter(env *Env) {
	cfg := env.Config
	p.Params = level.Derive(cfg, p.Level)
	p.bounds = cfg.Bounds()

	p.Ship = object.NewShip(cfg.ScreenWidth/2, p.bounds.Bottom(), env.skin())
	p.Invaders = formationSlots(p.Params.Ranks, p.Params.Files, p.Params.FileSpan,
		cfg.ScreenWidth/2, p.bounds.Y, cfg.FormationSpread, cfg.RankSpacing)
	p.Rockets = p.Rockets[:0]
	p.Bombs = p.Bombs[:0]
	p.formation = newFormation(p.Params.InvaderVelocity)
	p.grid = physics.NewSpatialGrid(physics.Rect{W: cfg.ScreenWidth, H: cfg.ScreenHeight}, gridCellSize)
	p.front = make([]*object.Invader, p.Params.Files)
	p.lastFire = time.Time{}

	env.Log.Debug("level started",
		"level", p.Level,
		"invaders", len(p.Invaders),
		"velocity", p.Params.InvaderVelocity,
		"fireRate", p.Params.RocketFireRate,
	)
}

func (p *Play) keyDown(env *Env, k Key) Transition {
	switch k {
	case KeyFire:
		if p.Ship.Alive() {
			p.fire(env)
		}
	case KeyPause:
		return push(NewPause())
	}
	return stay()
}

// update runs one simulation tick of dt seconds.
func (p *Play) update(env *Env, dt float64) Transition {
	cfg := env.Config
	ship := p.Ship

	if ship.CanMove() {
		if env.Keys.Held(KeyLeft) {
			ship.X -= p.Params.ShipSpeed * dt
		}
		if env.Keys.Held(KeyRight) {
			ship.X += p.Params.ShipSpeed * dt
		}
	}
	if ship.Alive() && env.Keys.Held(KeyFire) {
		p.fire(env)
	}

	timing := object.ShipTiming{
		ExplosionPhases: cfg.ExplosionPhases,
		RefreshTicks:    cfg.RefreshTicks,
		BlinkInterval:   cfg.BlinkInterval,
	}
	if ship.Advance(timing) {
		ship.Reset(cfg.ScreenWidth/2, p.bounds.Bottom())
		ship.Skin = env.skin()
	}
	p.keepShipInBounds(cfg.ScreenWidth / 2)

	p.moveProjectiles(env, dt)

	hits := p.formation.step(p.Invaders, p.bounds, dt, cfg.InvaderAcceleration, cfg.InvaderDropDistance, ship.Alive())
	if hits.bottom {
		env.Session.Lives = 0
	}

	p.resolveRocketHits(env)
	p.dropBombs(env, dt)
	p.resolveBombHits(env)
	p.resolveInvaderContact(env)

	p.Invaders = object.Compact(p.Invaders)
	p.Rockets = object.Compact(p.Rockets)
	p.Bombs = object.Compact(p.Bombs)

	if env.Session.Lives <= 0 {
		return replaceWith(NewGameOver(Summary{Score: env.Session.Score, Level: env.Session.Level}))
	}
	if len(p.Invaders) == 0 {
		env.Session.Score += p.Level * cfg.LevelBonus
		env.Session.Level++
		env.Log.Info("level cleared", "level", p.Level, "score", env.Session.Score)
		return replaceWith(NewLevelIntro(env.Session.Level, cfg.IntroSeconds))
	}
	return stay()
}

// fire launches a rocket from the ship's nose if the cooldown has elapsed.
func (p *Play) fire(env *Env) bool {
	now := env.Clock.Now()
	cooldown := time.Duration(float64(time.Second) / p.Params.RocketFireRate)
	if !p.lastFire.IsZero() && now.Sub(p.lastFire) <= cooldown {
		return false
	}
	x, y := p.Ship.Nose()
	p.Rockets = append(p.Rockets, object.NewRocket(x, y, env.Config.RocketVelocity))
	p.lastFire = now
	env.Sounds.Play(SoundShoot)
	return true
}

// keepShipInBounds clamps the ship horizontally and resets it if its position
// stopped being a real number.
func (p *Play) keepShipInBounds(cx float64) {
	s := p.Ship
	if !physics.Finite(physics.Vec{X: s.X, Y: s.Y}) {
		s.Reset(cx, p.bounds.Bottom())
		return
	}
	s.X = physics.Clamp(s.X, p.bounds.X, p.bounds.Right()-object.ShipWidth)
}

// moveProjectiles advances bombs and rockets and drops those that left the screen.
func (p *Play) moveProjectiles(env *Env, dt float64) {
	cfg := env.Config
	for _, b := range p.Bombs {
		b.Advance(dt)
		if b.Y > cfg.ScreenHeight || !physics.Finite(physics.Vec{X: b.X, Y: b.Y}) {
			b.MarkDestroyed()
		}
	}
	for _, r := range p.Rockets {
		r.Advance(dt, cfg.RocketFrames, cfg.RocketFrameInterval)
		if r.Y < 0 || !physics.Finite(physics.Vec{X: r.X, Y: r.Y}) {
			r.MarkDestroyed()
		}
	}
}

// resolveRocketHits removes each invader touched by a rocket together with
// the lowest-indexed rocket touching it.
func (p *Play) resolveRocketHits(env *Env) {
	p.grid.Clear()
	for i, r := range p.Rockets {
		if !r.IsDestroyed() {
			p.grid.Insert(r.Rect(), i)
		}
	}

	for _, inv := range p.Invaders {
		box := inv.Rect()
		hit := -1
		p.grid.QueryAround(box, func(i int) bool {
			r := p.Rockets[i]
			if r.IsDestroyed() || (hit >= 0 && i > hit) {
				return false
			}
			if r.Rect().Overlaps(box) {
				hit = i
			}
			return false
		})
		if hit < 0 {
			continue
		}

		p.Rockets[hit].MarkDestroyed()
		inv.MarkDestroyed()
		env.Session.Score += env.Config.PointsPerInvader
		env.Sounds.Play(SoundBang)
	}
}

// dropBombs gives the front-rank invader of every file a chance to bomb.
func (p *Play) dropBombs(env *Env, dt float64) {
	clear(p.front)
	for _, inv := range p.Invaders {
		if inv.IsDestroyed() || inv.File < 0 || inv.File >= len(p.front) {
			continue
		}
		if cur := p.front[inv.File]; cur == nil || cur.Rank < inv.Rank {
			p.front[inv.File] = inv
		}
	}

	chance := p.Params.BombRate * dt
	spread := p.Params.BombMaxVelocity - p.Params.BombMinVelocity
	for _, inv := range p.front {
		if inv == nil {
			continue
		}
		if chance > env.Rand.Float64() {
			v := p.Params.BombMinVelocity + env.Rand.Float64()*spread
			p.Bombs = append(p.Bombs, object.NewBomb(inv.X+object.InvaderWidth/2, inv.Y+object.InvaderHeight, v))
		}
	}
}

// resolveBombHits explodes the ship on the first bomb that strikes it.
func (p *Play) resolveBombHits(env *Env) {
	if !p.Ship.Alive() {
		return
	}
	box := p.Ship.Hitbox()
	for _, b := range p.Bombs {
		if b.IsDestroyed() || !box.Contains(b.Anchor()) {
			continue
		}
		b.MarkDestroyed()
		p.Ship.Explode()
		env.Session.Lives--
		env.Sounds.Play(SoundExplosion)
		env.Log.Debug("ship hit", "lives", env.Session.Lives)
		return
	}
}

// resolveInvaderContact ends the run if any invader reached the ship.
func (p *Play) resolveInvaderContact(env *Env) {
	box := p.Ship.Hitbox()
	for _, inv := range p.Invaders {
		if inv.IsDestroyed() || !inv.Hitbox().OverlapsStrict(box) {
			continue
		}
		env.Session.Lives = 0
		env.Sounds.Play(SoundExplosion)
		return
	}
}

func (p *Play) draw(env *Env, s Surface) {
	s.Clear()

	ship := p.Ship
	switch {
	case ship.Phase == object.ShipExploding:
		s.DrawFrame(Sprite{Kind: SpriteExplosion}, max(ship.ExplosionFrame-1, 0), ship.Rect())
	case ship.Visible:
		s.DrawSprite(Sprite{Kind: SpriteShip, Skin: ship.Skin}, ship.Rect())
	}

	for _, inv := range p.Invaders {
		s.DrawSprite(Sprite{Kind: SpriteInvader}, inv.Rect())
	}
	for _, b := range p.Bombs {
		s.DrawSprite(Sprite{Kind: SpriteBomb}, b.Rect())
	}
	for _, r := range p.Rockets {
		s.DrawFrame(Sprite{Kind: SpriteRocket, Skin: ship.Skin}, r.Frame, r.Rect())
	}

	bottom := p.bounds.Bottom()
	y := bottom + (env.Config.ScreenHeight-bottom)/2 + 7
	hud := TextStyle{Size: 14, Color: colorWhite}
	s.DrawText(fmt.Sprintf("Lives: %d", env.Session.Lives), p.bounds.X, y, hud)
	hud.Align = AlignRight
	s.DrawText(fmt.Sprintf("Score: %d, Level: %d", env.Session.Score, env.Session.Level), p.bounds.Right(), y, hud)
}
