// Package teleport implements teleport locomotion for a virtual-reality
// character: destination prediction, navigation validation, the visual
// teleport path and the (optionally faded) relocation itself.
//
// The package is engine agnostic. Spatial queries, visuals and the character
// body are reached through small interfaces that a concrete engine binding
// implements; see the bedrock package for a Dragonfly binding.
//
// # Quick Start
//
//	tasks := teleport.NewScheduler(nil)
//	ctrl, err := teleport.NewController(teleport.DefaultConfig(), teleport.Rig{
//	    Tracer:    query,
//	    Navigator: query,
//	    Poses:     rig,
//	    Curve:     teleport.NewSpline(),
//	    Segments:  segmentFactory,
//	    Body:      rig,
//	    Fader:     rig,
//	}, tasks)
//	if err != nil {
//	    return err
//	}
//
//	// Every frame, on the frame thread:
//	tasks.RunDue()
//	ctrl.Tick()
//
//	// On the teleport input:
//	ctrl.Trigger()
//
// # Destinations
//
// Each frame the controller samples a trajectory (a ray from the head in
// RayMode, a ballistic arc from the right hand in ProjectileMode), projects
// its terminal point onto navigable geometry and caches the result. Failures
// never surface as errors: a destination is simply invalid, with
// Destination.Reason set to ErrNoHit, ErrOffNavMesh or ErrNoProvider.
//
// # Path visual
//
// The sample is drawn as a curve through every sample point plus one pooled
// segment visual per span. The pool grows to the largest span count ever
// needed; spare entries are hidden, never destroyed.
package teleport

// Version is the teleport package version.
const Version = "1.0.0"
