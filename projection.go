package bubble

// projection maps bubble-local 3D idea space onto the bubble plane (z = 0)
// with a pinhole camera at z = focal looking down -Z. Points on the plane
// project onto themselves; nearer points spread out, farther points pull
// toward the bubble center.
type projection struct {
	focal float64
}

// w returns the homogeneous divisor for depth z.
func (p projection) w(z float64) float64 {
	return (p.focal - z) / p.focal
}

// project returns the 2D position of v on the bubble plane and the divisor
// used to get there.
func (p projection) project(v Vec3) (Vec2, float64) {
	w := p.w(v.Z)
	return Vec2{X: v.X / w, Y: v.Y / w}, w
}

// unproject lifts a bubble-plane point back to depth z.
func (p projection) unproject(v Vec2, z float64) Vec3 {
	w := p.w(z)
	return Vec3{X: v.X * w, Y: v.Y * w, Z: z}
}
