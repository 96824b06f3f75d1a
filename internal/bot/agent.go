package bot

import (
	"fmt"
	"time"

	"ramendo/internal/app"
	"ramendo/internal/domain"
)

// Agent represents an autonomous bot player.
type Agent struct {
	ID    string
	Name  string
	Brain Brain
}

// Seat returns the roster entry of the agent.
func (a *Agent) Seat() domain.Seat {
	return domain.Seat{PlayerID: a.ID, Name: a.Name, Bot: true}
}

// Act performs the agent's move for the current phase through the same
// session operations a human uses. It does nothing when the session is not
// waiting on the agent.
func (a *Agent) Act(now time.Time, sess *app.Session) ([]app.Event, error) {
	if !sess.Awaiting(a.ID) {
		return nil, nil
	}
	self, _ := sess.Player(a.ID)
	v := View{Engine: sess.Engine(), Self: self, Customers: sess.Customers()}

	switch sess.Phase() {
	case domain.PhaseCharSelect:
		return sess.SelectCharacter(now, a.ID, a.Brain.ChooseCharacter(v, sess.AvailableCharacters()))
	case domain.PhaseSoupSelect:
		return sess.SelectSoup(now, a.ID, a.Brain.ChooseSoup(v))
	case domain.PhaseNoodleSelect:
		return sess.SelectNoodle(now, a.ID, a.Brain.ChooseNoodle(v))
	case domain.PhaseDraft:
		hand := sess.Hand(a.ID)
		if len(hand) == 0 {
			return nil, nil
		}
		return sess.DraftPick(now, a.ID, a.Brain.ChoosePick(v, hand))
	case domain.PhasePlacement:
		return sess.SubmitPlacement(now, a.ID, a.Brain.Arrange(v, self.Picks))
	}
	return nil, nil
}

// Stage names the decision point a session is at, for Scheduler.
func Stage(sess *app.Session) string {
	round, _ := sess.DraftRound()
	return fmt.Sprintf("%d/%s/%d", sess.GameNumber(), sess.Phase(), round)
}
