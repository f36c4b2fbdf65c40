package nutrition

import (
	"github.com/NiaAranea/HardLight"
)

// Food is something that can be eaten in bites.
type Food struct {
	Content Solution

	// BiteSize is how much each bite removes. Zero eats it whole.
	BiteSize float64
}

// Eat makes target take one bite of food on behalf of user. It reports
// whether the bite happened. A finished food is queued for deletion unless a
// BeforeFullyEatenEvent handler cancels.
func Eat(m *hardlight.Manager, user, target, food hardlight.EntityUID) bool {
	fe := m.Entity(food)
	comp := hardlight.Get[Food](fe)
	if comp == nil || m.TerminatingOrDeleted(target) {
		return false
	}

	attempt := &IngestionAttemptEvent{}
	m.RaiseLocalEvent(target, attempt)
	if attempt.Cancelled() {
		return false
	}

	before := comp.Content.Clone()
	bite := comp.BiteSize
	if bite <= 0 {
		bite = comp.Content.Volume()
	}
	split := comp.Content.Split(bite)
	forceFed := user != target

	m.RaiseLocalEvent(target, &IngestingEvent{Food: food, Split: split, ForceFed: forceFed})

	ingested := &IngestedEvent{User: user, Target: target, Split: split, ForceFed: forceFed}
	m.RaiseLocalEvent(food, ingested)

	if ingested.Refresh {
		comp.Content = before
	}
	if ingested.Destroy || comp.Content.Volume() <= 0 {
		finish := &BeforeFullyEatenEvent{User: user}
		m.RaiseLocalEvent(food, finish)
		if !finish.Cancelled() {
			m.RaiseLocalEvent(food, AfterFullyEatenEvent{User: user})
			m.QueueDel(food)
		}
	}
	return true
}
