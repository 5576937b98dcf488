package mines

import (
	"github.com/sirupsen/logrus"

	"github.com/vancomm/hexsweeper/internal/hexgrid"
)

// Reveal opens the tile at c. Flagged and already revealed tiles are left
// alone. Opening a mine loses the game and shows every mine; opening a tile
// with no neighboring mines opens its neighbors as well.
func (f *Field) Reveal(c hexgrid.Coord) error {
	t, err := f.Tile(c)
	if err != nil {
		return err
	}
	defer f.notify()

	f.start()
	if f.state.Terminal() || t.revealed || t.flagged {
		return nil
	}

	log := Log.WithFields(logrus.Fields{"q": c.Q, "r": c.R})
	if t.mine {
		log.Debug("mine revealed")
		f.explode(t)
		return nil
	}

	n := f.flood(c, t)
	log.WithField("opened", n).Debug("tile revealed")
	return nil
}

/*
Open t and, while the opened tile has a zero count, keep opening its hidden,
unflagged neighbors. The revealed bit is set before a tile is pushed, so every
tile enters the stack at most once.
*/
func (f *Field) flood(c hexgrid.Coord, t *Tile) (opened int) {
	t.revealed = true
	opened++
	stack := []hexgrid.Coord{c}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.tiles[cur].count != 0 {
			continue
		}
		for _, n := range f.tiles[cur].Neighbors() {
			nt := f.tiles[n]
			if nt.revealed || nt.flagged {
				continue
			}
			nt.revealed = true
			opened++
			stack = append(stack, n)
		}
	}
	return opened
}

// panics [AssertionError]
func (f *Field) explode(t *Tile) {
	t.revealed = true
	for c := range f.mines {
		mt, ok := f.tiles[c]
		if !ok || !mt.mine {
			panic(AssertionError{"mine locations not consistent with field"})
		}
		mt.revealed = true
	}
	f.state = Lost
	Log.WithField("elapsed", f.elapsed).Debug("game lost")
}

// ToggleFlag flags or unflags the hidden tile at c. Flagging the last
// unflagged mine wins the game.
func (f *Field) ToggleFlag(c hexgrid.Coord) error {
	t, err := f.Tile(c)
	if err != nil {
		return err
	}
	defer f.notify()

	f.start()
	if f.state.Terminal() || t.revealed {
		return nil
	}

	t.flagged = !t.flagged
	Log.WithFields(logrus.Fields{
		"q": c.Q, "r": c.R, "flagged": t.flagged,
	}).Debug("flag toggled")

	if f.allMinesFlagged() {
		f.state = Won
		Log.WithField("elapsed", f.elapsed).Debug("game won")
	}
	return nil
}

// panics [AssertionError]
func (f *Field) allMinesFlagged() bool {
	for c := range f.mines {
		t, ok := f.tiles[c]
		if !ok || !t.mine {
			panic(AssertionError{"mine locations not consistent with field"})
		}
		if !t.flagged {
			return false
		}
	}
	return true
}

// Forfeit gives up a game in progress: it is lost and every mine is shown.
func (f *Field) Forfeit() {
	defer f.notify()
	if f.state.Terminal() {
		return
	}
	for c := range f.mines {
		f.tiles[c].revealed = true
	}
	f.state = Lost
	Log.WithField("elapsed", f.elapsed).Debug("game forfeited")
}

// Tick counts one elapsed second. It does nothing until the first move has
// been made or once the game is over.
func (f *Field) Tick() {
	if !f.started || f.state != InProgress {
		return
	}
	f.elapsed++
	f.notify()
}

func (f *Field) start() {
	if !f.started {
		f.started = true
		Log.Debug("timer started")
	}
}
