package leaderboard

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"tether/internal/game"
)

type fakeIdentity struct{ pub string }

func (f fakeIdentity) PublicKey() string { return f.pub }

func (f fakeIdentity) Sign(id []byte) (string, error) {
	return hex.EncodeToString(append(id, id...)), nil
}

type fakeRelay struct {
	mu     sync.Mutex
	events []Event
	reject bool
}

func (f *fakeRelay) add(ev Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
}

func (f *fakeRelay) stored() []Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Event(nil), f.events...)
}

func (f *fakeRelay) match(flt Filter) []Event {
	var out []Event
	for _, ev := range f.stored() {
		if len(flt.Kinds) > 0 && !slices.Contains(flt.Kinds, ev.Kind) {
			continue
		}
		if len(flt.Authors) > 0 && !slices.Contains(flt.Authors, ev.PubKey) {
			continue
		}
		if len(flt.DTags) > 0 {
			if d, ok := ev.Tag("d"); !ok || !slices.Contains(flt.DTags, d) {
				continue
			}
		}
		out = append(out, ev)
	}
	return out
}

func (f *fakeRelay) serve() *httptest.Server {
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var msg []json.RawMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if len(msg) < 2 {
				continue
			}
			var label string
			_ = json.Unmarshal(msg[0], &label)
			switch label {
			case "EVENT":
				var ev Event
				_ = json.Unmarshal(msg[1], &ev)
				ok := !f.reject && ev.ID == ev.ComputeID()
				if ok {
					f.add(ev)
				}
				_ = conn.WriteJSON([]any{"OK", ev.ID, ok, "blocked: test relay"})
			case "REQ":
				var sub string
				_ = json.Unmarshal(msg[1], &sub)
				_ = conn.WriteJSON([]any{"NOTICE", "welcome"})
				for _, raw := range msg[2:] {
					var flt Filter
					_ = json.Unmarshal(raw, &flt)
					for _, ev := range f.match(flt) {
						_ = conn.WriteJSON([]any{"EVENT", sub, ev})
					}
				}
				_ = conn.WriteJSON([]any{"EOSE", sub})
			case "CLOSE":
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func scoreEvent(pub string, score int64, at int64) Event {
	content, _ := json.Marshal(Payload{Score: score, Timestamp: at})
	ev := Event{PubKey: pub, CreatedAt: at, Kind: KindScore, Tags: [][]string{{"d", AppTag}}, Content: string(content)}
	ev.ID = ev.ComputeID()
	return ev
}

func profileEvent(pub, name string, at int64) Event {
	content, _ := json.Marshal(Profile{Name: name, Picture: "https://example.test/" + name + ".png"})
	ev := Event{PubKey: pub, CreatedAt: at, Kind: KindProfile, Content: string(content)}
	ev.ID = ev.ComputeID()
	return ev
}

func TestNewScoreEvent(t *testing.T) {
	now := time.Unix(1700000000, 0)
	res := game.Result{Score: 12345, BestCombo: 9, Settings: game.DefaultSettings()}
	ev, err := NewScoreEvent(fakeIdentity{pub: "ab12"}, res, now)
	if err != nil {
		t.Fatalf("new event: %v", err)
	}
	if ev.Kind != KindScore || ev.CreatedAt != now.Unix() || ev.PubKey != "ab12" {
		t.Fatalf("unexpected envelope %+v", ev)
	}
	if d, ok := ev.Tag("d"); !ok || d != AppTag {
		t.Fatalf("missing application tag: %+v", ev.Tags)
	}
	if ev.ID != ev.ComputeID() || len(ev.ID) != 64 || ev.Sig == "" {
		t.Fatalf("event not identified and signed: %+v", ev)
	}
	var p Payload
	if err := json.Unmarshal([]byte(ev.Content), &p); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if p.Score != 12345 || p.BestCombo != 9 || p.Settings != res.Settings || p.Timestamp != now.Unix() {
		t.Fatalf("unexpected payload %+v", p)
	}

	if _, err := NewScoreEvent(nil, res, now); !errors.Is(err, ErrNoIdentity) {
		t.Fatalf("expected ErrNoIdentity, got %v", err)
	}
}

func TestRank(t *testing.T) {
	stale := scoreEvent("alice", 9000, 100)
	fresh := scoreEvent("alice", 500, 200)
	wrongTag := scoreEvent("mallory", 1<<40, 150)
	wrongTag.Tags = [][]string{{"d", "other-game"}}
	broken := scoreEvent("eve", 0, 150)
	broken.Content = "{not json"

	events := []Event{
		stale,
		scoreEvent("bob", 3000, 120),
		fresh,
		scoreEvent("carol", 3000, 110),
		wrongTag,
		broken,
		scoreEvent("dave", 100, 90),
	}
	profiles := Profiles([]Event{profileEvent("bob", "bobby", 1), profileEvent("bob", "robert", 5)})

	got := Rank(events, profiles, 3)
	if len(got) != 3 {
		t.Fatalf("expected top 3, got %d", len(got))
	}
	order := []string{got[0].PubKey, got[1].PubKey, got[2].PubKey}
	if !slices.Equal(order, []string{"carol", "bob", "alice"}) {
		t.Fatalf("unexpected ranking %v", order)
	}
	if got[2].Score != 500 {
		t.Fatalf("latest event per player should win, got %d", got[2].Score)
	}
	if got[1].Name != "robert" || got[1].Picture == "" {
		t.Fatalf("expected the latest profile, got %+v", got[1])
	}
	if all := Rank(events, nil, 0); len(all) != 4 {
		t.Fatalf("expected four valid players, got %d", len(all))
	}
}

func TestServiceSubmitAndFetch(t *testing.T) {
	good := &fakeRelay{}
	goodSrv := good.serve()
	defer goodSrv.Close()
	bad := &fakeRelay{reject: true}
	badSrv := bad.serve()
	defer badSrv.Close()

	svc := NewService(Config{
		Relays:  []string{wsURL(goodSrv), wsURL(badSrv)},
		Timeout: 5 * time.Second,
		Logger:  quietLogger(),
	}, fakeIdentity{pub: "ab12"})
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := svc.Submit(ctx, game.Result{Score: 4200, BestCombo: 7, Settings: game.DefaultSettings()}); err != nil {
		t.Fatalf("submit should succeed with one accepting relay: %v", err)
	}
	if n := len(good.stored()); n != 1 {
		t.Fatalf("expected one stored event, got %d", n)
	}
	good.add(profileEvent("ab12", "ace", 10))
	good.add(scoreEvent("cd34", 100, 50))

	entries, err := svc.Fetch(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(entries) != 2 || entries[0].PubKey != "ab12" || entries[0].Score != 4200 || entries[0].Name != "ace" {
		t.Fatalf("unexpected entries %+v", entries)
	}
	if entries[0].BestCombo != 7 {
		t.Fatalf("best combo not carried, got %d", entries[0].BestCombo)
	}
}

func TestServiceSubmitRejected(t *testing.T) {
	bad := &fakeRelay{reject: true}
	srv := bad.serve()
	defer srv.Close()

	svc := NewService(Config{Relays: []string{wsURL(srv)}, Logger: quietLogger()}, fakeIdentity{pub: "ab12"})
	err := svc.Submit(context.Background(), game.Result{Score: 1})
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}

func TestFetchAsyncSwallowsFailures(t *testing.T) {
	srv := (&fakeRelay{}).serve()
	url := wsURL(srv)
	srv.Close()

	svc := NewService(Config{Relays: []string{url}, Timeout: 2 * time.Second, Logger: quietLogger()}, nil)
	select {
	case entries, ok := <-svc.FetchAsync():
		if !ok || entries != nil {
			t.Fatalf("expected a nil table from a dead relay, got %v (ok=%v)", entries, ok)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("FetchAsync did not report")
	}

	select {
	case err := <-svc.SubmitAsync(game.Result{Score: 1}):
		if !errors.Is(err, ErrNoIdentity) {
			t.Fatalf("expected ErrNoIdentity without a signer, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("SubmitAsync did not report")
	}
}
