// Package bedrock runs teleport controllers for the players of a Dragonfly
// (Minecraft Bedrock Edition) server.
//
// Each player gets a Session holding a teleport.Controller wired to engine
// services built on the player's world: a voxel WorldQuery for traces and
// navigation, dust particles for the path and destination marker, and the
// player itself as body and fader. A Scheduler ticks every session once per
// server tick inside its world's transaction; using the trigger item fires
// the teleport.
//
// # Quick Start
//
//	mngr := bedrock.NewBuilder().
//		Config(bedrock.DefaultConfig()).
//		TriggerItem("minecraft:compass").
//		Init()
//	defer mngr.Shutdown()
//
//	for p := range srv.Accept() {
//		if _, err := mngr.Attach(p); err != nil {
//			p.Disconnect("teleport unavailable")
//		}
//	}
//
// Distances in the Bedrock configuration are in blocks and the up axis is +Y.
// Every non-air block is treated as a full solid cube, and a block can be
// teleported onto when the two blocks above it are air.
package bedrock
