package physics

import "github.com/go-gl/mathgl/mgl64"

// Bounds is the playable region. A ball outside it is returned to its last
// safe position.
type Bounds struct {
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinZ float64 `json:"min_z"`
	MaxZ float64 `json:"max_z"`
	MinY float64 `json:"min_y"`
}

// Contains reports whether p lies inside the horizontal bounds and above MinY.
func (b Bounds) Contains(p mgl64.Vec3) bool {
	return p.X() >= b.MinX && p.X() <= b.MaxX &&
		p.Z() >= b.MinZ && p.Z() <= b.MaxZ &&
		p.Y() >= b.MinY
}

// Params holds every tuning value used by the simulation. Distances are in
// metres, speeds in m/s, angles in degrees. Spin is in game units; see the
// *Factor fields for how it turns into acceleration.
//
// The contact thresholds (SkimAngle, ReflectAngle, FlatNormalY,
// GlancingSpinAngle, GlancingReflectScale) encode intended game feel and are
// not derived from physical constants.
type Params struct {
	Radius         float64
	Gravity        float64
	Clearance      float64 // gap kept between ball and surface when snapped
	ContactEpsilon float64

	MaxSpeed       float64
	MaxLaunchSpeed float64 // speed at power 100
	MaxSpin        float64
	LoftSpinFactor float64
	SideSpinFactor float64
	HitNudge       float64
	LoftJitter     float64
	SideJitter     float64

	MaxDeltaTime   float64
	TunnelingSpeed float64
	SubstepSpeed   float64
	MaxSubsteps    int

	SpinLiftFactor       float64
	SpinForwardFactor    float64
	SideSpinCurveFactor  float64
	SideSpinLiftFactor   float64
	GroundSpinForceScale float64
	SpinEpsilon          float64
	AirSpinDecay         float64 // per 1/60 s
	GroundSpinDecay      float64 // per 1/60 s

	SkimAngle            float64
	ReflectAngle         float64
	GlancingSpinAngle    float64
	FlatNormalY          float64
	GlancingReflectScale float64
	SkimRebound          float64
	SkimFriction         float64
	RollTransitionSpeed  float64
	LowBounceNormalSpeed float64
	BounceWorthySpeed    float64
	MinBounceSpeed       float64

	SpeedLossReference float64
	SpeedLossScale     float64
	SlopeLossScale     float64
	RestitutionFloor   float64
	RestitutionJitter  float64
	SlowImpactSpeed    float64
	SlowImpactPenalty  float64
	SpinRetention      float64
	ImpactSpinFactor   float64

	SlopeFactor       float64
	UphillDrag        float64
	LowSpeedThreshold float64
	SlidingSpeed      float64
	InertiaBlend      float64
	FrictionJitter    float64
	CrestGap          float64
	CrestLaunchSpeed  float64

	StopSpeed  float64
	RestFrames int

	Tee            mgl64.Vec3
	Bounds         Bounds
	WaterLevel     float64
	WaterTolerance float64
	HazardDamping  float64

	Seed int64
}

// DefaultParams returns the tuning used by the practice range.
func DefaultParams() Params {
	return Params{
		Radius:         0.1,
		Gravity:        9.81,
		Clearance:      0.002,
		ContactEpsilon: 0.001,

		MaxSpeed:       80,
		MaxLaunchSpeed: 70,
		MaxSpin:        150,
		LoftSpinFactor: 0.05,
		SideSpinFactor: 0.6,
		HitNudge:       0.02,
		LoftJitter:     0.10,
		SideJitter:     0.05,

		MaxDeltaTime:   0.05,
		TunnelingSpeed: 15,
		SubstepSpeed:   15,
		MaxSubsteps:    3,

		SpinLiftFactor:       0.04,
		SpinForwardFactor:    0.02,
		SideSpinCurveFactor:  0.03,
		SideSpinLiftFactor:   0.004,
		GroundSpinForceScale: 0.25,
		SpinEpsilon:          0.5,
		AirSpinDecay:         0.995,
		GroundSpinDecay:      0.9,

		SkimAngle:            15,
		ReflectAngle:         45,
		GlancingSpinAngle:    54,
		FlatNormalY:          0.8,
		GlancingReflectScale: 1.8,
		SkimRebound:          0.3,
		SkimFriction:         0.15,
		RollTransitionSpeed:  3,
		LowBounceNormalSpeed: 1,
		BounceWorthySpeed:    4,
		MinBounceSpeed:       0.5,

		SpeedLossReference: 40,
		SpeedLossScale:     0.15,
		SlopeLossScale:     0.2,
		RestitutionFloor:   0.1,
		RestitutionJitter:  0.05,
		SlowImpactSpeed:    2,
		SlowImpactPenalty:  0.7,
		SpinRetention:      0.3,
		ImpactSpinFactor:   0.5,

		SlopeFactor:       0.7,
		UphillDrag:        0.5,
		LowSpeedThreshold: 1,
		SlidingSpeed:      2,
		InertiaBlend:      0.5,
		FrictionJitter:    0.03,
		CrestGap:          0.05,
		CrestLaunchSpeed:  4,

		StopSpeed:  0.15,
		RestFrames: 10,

		Tee: mgl64.Vec3{0, 0, 0},
		Bounds: Bounds{
			MinX: -500, MaxX: 500,
			MinZ: -500, MaxZ: 500,
			MinY: -50,
		},
		WaterLevel:     -1,
		WaterTolerance: 0.05,
		HazardDamping:  0.1,

		Seed: 1,
	}
}
