// Package hardlight is the entity component system the HardLight gameplay
// systems plug into.
//
// It provides:
//   - An entity registry with deferred deletion
//   - Component-based data storage per entity, tracked by bitmask
//   - Declarative dependency injection via struct tags
//   - Directed and broadcast events dispatched by method signature
//   - A fixed-step scheduler with stages and per-loop intervals
//   - Game timing, transforms and spatial lookup as resources
//
// # Quick Start
//
//	bundle := hardlight.NewBundle("Deeds").
//	    Handler(&DeedStartup{}).
//	    Loop(&DeedPoll{}, 0, hardlight.Default)
//
//	mngr := hardlight.NewBuilder().
//	    Logger(log).
//	    Sessions(sessions).
//	    Bundle(bundle.Build()).
//	    Init()
//
//	go mngr.Run(ctx, hardlight.DefaultTickRate)
//
// # Components
//
// Components are plain Go structs attached to entities:
//
//	type ShuttleDeed struct {
//	    OwnerUserID string
//	}
//
//	hardlight.Add(e, &ShuttleDeed{OwnerUserID: id})
//	deed := hardlight.Get[ShuttleDeed](e)
//	hardlight.Remove[ShuttleDeed](e)
//
// # Systems
//
// Systems declare dependencies via struct tags:
//
//	type DeedPoll struct {
//	    Entity   *hardlight.Entity
//	    Manager  *hardlight.Manager
//	    Deed     *ShuttleDeed                // Required
//	    Tracking *OwnerTracking `hl:"mut"`   // Required, written
//	    Shuttle  *Shuttle       `hl:"opt"`   // Nil if missing
//	    Timing   *hardlight.Timing `hl:"res"` // Resource
//	    _ hardlight.Without[Anchored]        // Skip if Anchored exists
//	}
//
// A system with an *Entity field runs once per matching entity; one without
// runs once per tick (loops) or once per broadcast (handlers).
//
// # Tag Reference
//
//	hl:"mut"  documents write access to a component
//	hl:"opt"  component or resource may be nil
//	hl:"res"  inject a resource registered with the builder or a bundle
//
// # Events
//
// Handler methods take exactly one argument; its type selects the events the
// method receives. Pass pointers to let handlers write results back:
//
//	func (h *Zap) HandleZap(ev *ZapEvent) { ev.Handled = true }
//
// Directed events go through Manager.RaiseLocalEvent or Entity.Dispatch and
// reach entity-scoped handlers. Manager.Broadcast reaches the others.
package hardlight
