package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/planmyoutings/outings/internal/models"
	"github.com/planmyoutings/outings/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createTestGroup(t *testing.T, store *SQLiteStore, token string) *models.Group {
	t.Helper()

	group := &models.Group{Token: token, Name: "Friends Night"}
	if err := store.CreateGroup(context.Background(), group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return group
}

func addTestPlan(t *testing.T, store *SQLiteStore, groupID, title string) *models.Plan {
	t.Helper()

	plan := &models.Plan{Title: title}
	if _, err := store.AddPlans(context.Background(), groupID, []*models.Plan{plan}); err != nil {
		t.Fatalf("AddPlans failed: %v", err)
	}
	return plan
}

func TestGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateGroup generates ID and stores uppercase token", func(t *testing.T) {
		group := &models.Group{Token: "ab12cd34", Name: "Roommates"}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if group.ID == "" {
			t.Error("Expected group ID to be generated")
		}
		if group.Token != "AB12CD34" {
			t.Errorf("Expected uppercase token, got %q", group.Token)
		}
		if group.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetGroupByToken is case-insensitive", func(t *testing.T) {
		got, err := store.GetGroupByToken(ctx, "Ab12Cd34")
		if err != nil {
			t.Fatalf("GetGroupByToken failed: %v", err)
		}
		if got.Name != "Roommates" {
			t.Errorf("Expected Roommates, got %q", got.Name)
		}
	})

	t.Run("unknown token returns ErrGroupNotFound", func(t *testing.T) {
		if _, err := store.GetGroupByToken(ctx, "FFFFFFFF"); err != storage.ErrGroupNotFound {
			t.Errorf("Expected ErrGroupNotFound, got %v", err)
		}
	})

	t.Run("duplicate token returns ErrTokenCollision", func(t *testing.T) {
		err := store.CreateGroup(ctx, &models.Group{Token: "AB12CD34", Name: "Copycats"})
		if err != storage.ErrTokenCollision {
			t.Errorf("Expected ErrTokenCollision, got %v", err)
		}
	})

	t.Run("creator is auto-joined", func(t *testing.T) {
		group := &models.Group{Token: "11112222", Name: "Owned", CreatorID: "creator-1"}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		members, err := store.ListMembers(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		if len(members) != 1 || members[0].UserID != "creator-1" {
			t.Errorf("Expected creator membership, got %+v", members)
		}
	})
}

func TestMembership(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group := createTestGroup(t, store, "AAAA0001")

	if err := store.AddMember(ctx, group.ID, "u1"); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	t.Run("second join is rejected distinctly", func(t *testing.T) {
		if err := store.AddMember(ctx, group.ID, "u1"); err != storage.ErrAlreadyMember {
			t.Errorf("Expected ErrAlreadyMember, got %v", err)
		}
		members, err := store.ListMembers(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		if len(members) != 1 {
			t.Errorf("Expected exactly 1 membership row, got %d", len(members))
		}
	})

	t.Run("unknown group returns ErrGroupNotFound", func(t *testing.T) {
		if err := store.AddMember(ctx, "no-such-group", "u1"); err != storage.ErrGroupNotFound {
			t.Errorf("Expected ErrGroupNotFound, got %v", err)
		}
	})
}

func TestPlans(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group := createTestGroup(t, store, "AAAA0002")

	t.Run("place payload round-trips exactly", func(t *testing.T) {
		payload := json.RawMessage(`{"name":"Cafe A","address":"1 Main St","lat":12.5,"lon":77.6,"extra":{"tags":["quiet"]}}`)
		plan := &models.Plan{Title: "Cafe A", Place: payload}
		if _, err := store.AddPlans(ctx, group.ID, []*models.Plan{plan}); err != nil {
			t.Fatalf("AddPlans failed: %v", err)
		}

		tallies, err := store.ListPlans(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListPlans failed: %v", err)
		}
		if len(tallies) != 1 {
			t.Fatalf("Expected 1 plan, got %d", len(tallies))
		}
		if string(tallies[0].Place) != string(payload) {
			t.Errorf("Place payload changed:\n in:  %s\n out: %s", payload, tallies[0].Place)
		}
		if tallies[0].Votes != 0 {
			t.Errorf("Expected 0 votes on a fresh plan, got %d", tallies[0].Votes)
		}
	})

	t.Run("no deduplication across batches", func(t *testing.T) {
		batch := []*models.Plan{{Title: "Park B"}, {Title: "Park B"}}
		n, err := store.AddPlans(ctx, group.ID, batch)
		if err != nil {
			t.Fatalf("AddPlans failed: %v", err)
		}
		if n != 2 {
			t.Errorf("Expected 2 inserted, got %d", n)
		}

		tallies, err := store.ListPlans(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListPlans failed: %v", err)
		}
		if len(tallies) != 3 {
			t.Errorf("Expected 3 plans total, got %d", len(tallies))
		}
	})

	t.Run("empty batch inserts zero", func(t *testing.T) {
		n, err := store.AddPlans(ctx, group.ID, nil)
		if err != nil {
			t.Fatalf("AddPlans failed: %v", err)
		}
		if n != 0 {
			t.Errorf("Expected 0 inserted, got %d", n)
		}
	})

	t.Run("listing preserves insertion order within a batch", func(t *testing.T) {
		// All rows in one batch share the same Unix-second created_at, so
		// ordering must not depend on it (or on the random ids).
		ordered := createTestGroup(t, store, "AAAA0003")
		batch := make([]*models.Plan, 20)
		for i := range batch {
			batch[i] = &models.Plan{Title: fmt.Sprintf("Plan %02d", i)}
		}
		if _, err := store.AddPlans(ctx, ordered.ID, batch); err != nil {
			t.Fatalf("AddPlans failed: %v", err)
		}

		tallies, err := store.ListPlans(ctx, ordered.ID)
		if err != nil {
			t.Fatalf("ListPlans failed: %v", err)
		}
		if len(tallies) != len(batch) {
			t.Fatalf("Expected %d plans, got %d", len(batch), len(tallies))
		}
		for i, tally := range tallies {
			if tally.Title != batch[i].Title {
				t.Fatalf("Plan %d out of order: expected %q, got %q", i, batch[i].Title, tally.Title)
			}
		}
	})
}

func TestToggleVote(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group := createTestGroup(t, store, "AAAA0003")
	plan := addTestPlan(t, store, group.ID, "Cafe A")

	t.Run("toggle pair returns to original state", func(t *testing.T) {
		state, count, err := store.ToggleVote(ctx, group.ID, plan.ID, "u1")
		if err != nil {
			t.Fatalf("ToggleVote failed: %v", err)
		}
		if state != storage.Voted || count != 1 {
			t.Errorf("Expected (voted, 1), got (%s, %d)", state, count)
		}

		state, count, err = store.ToggleVote(ctx, group.ID, plan.ID, "u1")
		if err != nil {
			t.Fatalf("ToggleVote failed: %v", err)
		}
		if state != storage.Unvoted || count != 0 {
			t.Errorf("Expected (unvoted, 0), got (%s, %d)", state, count)
		}

		votes, err := store.listVotes(ctx, plan.ID)
		if err != nil {
			t.Fatalf("listVotes failed: %v", err)
		}
		if len(votes) != 0 {
			t.Errorf("Expected 0 vote rows after a toggle pair, got %d", len(votes))
		}
	})

	t.Run("votes from different users are independent", func(t *testing.T) {
		if _, _, err := store.ToggleVote(ctx, group.ID, plan.ID, "uA"); err != nil {
			t.Fatalf("ToggleVote failed: %v", err)
		}
		state, count, err := store.ToggleVote(ctx, group.ID, plan.ID, "uB")
		if err != nil {
			t.Fatalf("ToggleVote failed: %v", err)
		}
		if state != storage.Voted || count != 2 {
			t.Errorf("Expected (voted, 2), got (%s, %d)", state, count)
		}
	})

	t.Run("plan in another group is rejected", func(t *testing.T) {
		other := createTestGroup(t, store, "AAAA0004")
		_, _, err := store.ToggleVote(ctx, other.ID, plan.ID, "u1")
		if err != storage.ErrPlanNotFound {
			t.Errorf("Expected ErrPlanNotFound, got %v", err)
		}
		// No side effects on the real group's tally.
		count, err := store.CountVotes(ctx, plan.ID)
		if err != nil {
			t.Fatalf("CountVotes failed: %v", err)
		}
		if count != 2 {
			t.Errorf("Expected count unchanged at 2, got %d", count)
		}
	})

	t.Run("unknown plan is rejected", func(t *testing.T) {
		if _, _, err := store.ToggleVote(ctx, group.ID, "no-such-plan", "u1"); err != storage.ErrPlanNotFound {
			t.Errorf("Expected ErrPlanNotFound, got %v", err)
		}
	})
}

func TestToggleVoteConcurrent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group := createTestGroup(t, store, "AAAA0005")
	plan := addTestPlan(t, store, group.ID, "Cafe A")

	t.Run("same user never leaves duplicate rows", func(t *testing.T) {
		const toggles = 10
		var wg sync.WaitGroup
		errs := make(chan error, toggles)

		for i := 0; i < toggles; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, _, err := store.ToggleVote(ctx, group.ID, plan.ID, "u1"); err != nil {
					errs <- err
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Errorf("concurrent ToggleVote failed: %v", err)
		}

		votes, err := store.listVotes(ctx, plan.ID)
		if err != nil {
			t.Fatalf("listVotes failed: %v", err)
		}
		if len(votes) > 1 {
			t.Fatalf("Invariant violated: %d vote rows for one (plan, user) pair", len(votes))
		}
		// Serialized toggles flip state once each, so an even number of
		// successful toggles lands back on unvoted.
		if len(votes) != 0 {
			t.Errorf("Expected 0 rows after %d toggles, got %d", toggles, len(votes))
		}
	})

	t.Run("different users all land", func(t *testing.T) {
		users := []string{"c1", "c2", "c3", "c4", "c5"}
		var wg sync.WaitGroup
		for _, u := range users {
			wg.Add(1)
			go func(userID string) {
				defer wg.Done()
				if _, _, err := store.ToggleVote(ctx, group.ID, plan.ID, userID); err != nil {
					t.Errorf("ToggleVote(%s) failed: %v", userID, err)
				}
			}(u)
		}
		wg.Wait()

		count, err := store.CountVotes(ctx, plan.ID)
		if err != nil {
			t.Fatalf("CountVotes failed: %v", err)
		}
		if count != len(users) {
			t.Errorf("Expected %d votes, got %d", len(users), count)
		}
	})
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := &models.User{
		Username:     "asha",
		Name:         "Asha",
		PasswordHash: "x",
		Email:        "asha@example.com",
		Mobile:       "9876543210",
	}
	if err := store.CreateUser(ctx, base); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("duplicate username", func(t *testing.T) {
		err := store.CreateUser(ctx, &models.User{Username: "asha", Name: "Other", PasswordHash: "x"})
		if err != storage.ErrUsernameTaken {
			t.Errorf("Expected ErrUsernameTaken, got %v", err)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := store.CreateUser(ctx, &models.User{
			Username: "other", Name: "Other", PasswordHash: "x", Email: "asha@example.com",
		})
		if err != storage.ErrEmailTaken {
			t.Errorf("Expected ErrEmailTaken, got %v", err)
		}
	})

	t.Run("duplicate mobile", func(t *testing.T) {
		err := store.CreateUser(ctx, &models.User{
			Username: "third", Name: "Third", PasswordHash: "x", Mobile: "9876543210",
		})
		if err != storage.ErrMobileTaken {
			t.Errorf("Expected ErrMobileTaken, got %v", err)
		}
	})

	t.Run("empty email and mobile do not collide", func(t *testing.T) {
		for _, username := range []string{"blank1", "blank2"} {
			err := store.CreateUser(ctx, &models.User{Username: username, Name: username, PasswordHash: "x"})
			if err != nil {
				t.Fatalf("CreateUser(%s) failed: %v", username, err)
			}
		}
	})

	t.Run("lookup by username, email and mobile", func(t *testing.T) {
		for _, id := range []string{"asha", "asha@example.com", "9876543210"} {
			user, err := store.GetUserByIdentifier(ctx, id)
			if err != nil {
				t.Fatalf("GetUserByIdentifier(%s) failed: %v", id, err)
			}
			if user.Username != "asha" {
				t.Errorf("GetUserByIdentifier(%s): expected asha, got %q", id, user.Username)
			}
		}
	})

	t.Run("unknown identifier", func(t *testing.T) {
		if _, err := store.GetUserByIdentifier(ctx, "nobody"); err != storage.ErrUserNotFound {
			t.Errorf("Expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("delete removes only the account", func(t *testing.T) {
		// The user's votes stay behind after deletion; only the login goes.
		group := createTestGroup(t, store, "AAAA0009")
		plan := addTestPlan(t, store, group.ID, "Cafe A")
		if _, _, err := store.ToggleVote(ctx, group.ID, plan.ID, base.ID); err != nil {
			t.Fatalf("ToggleVote failed: %v", err)
		}

		if err := store.DeleteUser(ctx, base.ID); err != nil {
			t.Fatalf("DeleteUser failed: %v", err)
		}
		if _, err := store.GetUserByID(ctx, base.ID); err != storage.ErrUserNotFound {
			t.Errorf("Expected ErrUserNotFound after delete, got %v", err)
		}

		count, err := store.CountVotes(ctx, plan.ID)
		if err != nil {
			t.Fatalf("CountVotes failed: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected the vote to survive deletion, got count %d", count)
		}
	})

	t.Run("delete unknown user", func(t *testing.T) {
		if err := store.DeleteUser(ctx, "no-such-id"); err != storage.ErrUserNotFound {
			t.Errorf("Expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestEvents(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	event := &models.Event{
		CreatorID: "u1",
		Title:     "Dinner",
		StartsAt:  1700000000,
		Type:      "Restaurant",
		Location:  "Cafe A",
	}
	if err := store.CreateEvent(ctx, event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	t.Run("creator auto-RSVPs attending", func(t *testing.T) {
		participants, err := store.ListParticipants(ctx, event.ID)
		if err != nil {
			t.Fatalf("ListParticipants failed: %v", err)
		}
		if len(participants) != 1 || participants[0].Status != models.StatusAttending {
			t.Errorf("Expected creator attending, got %+v", participants)
		}
	})

	t.Run("RSVP upsert replaces status", func(t *testing.T) {
		if err := store.UpsertRSVP(ctx, event.ID, "u2", models.StatusMaybe); err != nil {
			t.Fatalf("UpsertRSVP failed: %v", err)
		}
		if err := store.UpsertRSVP(ctx, event.ID, "u2", models.StatusAttending); err != nil {
			t.Fatalf("UpsertRSVP failed: %v", err)
		}

		participants, err := store.ListParticipants(ctx, event.ID)
		if err != nil {
			t.Fatalf("ListParticipants failed: %v", err)
		}
		if len(participants) != 2 {
			t.Fatalf("Expected 2 participants, got %d", len(participants))
		}
		for _, p := range participants {
			if p.UserID == "u2" && p.Status != models.StatusAttending {
				t.Errorf("Expected upserted status attending, got %q", p.Status)
			}
		}
	})

	t.Run("unknown event", func(t *testing.T) {
		if err := store.UpsertRSVP(ctx, "no-such-event", "u1", models.StatusMaybe); err != storage.ErrEventNotFound {
			t.Errorf("Expected ErrEventNotFound, got %v", err)
		}
	})

	t.Run("ListUserEvents filters", func(t *testing.T) {
		created, err := store.ListUserEvents(ctx, "u1", "created")
		if err != nil {
			t.Fatalf("ListUserEvents failed: %v", err)
		}
		if len(created) != 1 {
			t.Errorf("Expected 1 created event, got %d", len(created))
		}

		participating, err := store.ListUserEvents(ctx, "u2", "participating")
		if err != nil {
			t.Fatalf("ListUserEvents failed: %v", err)
		}
		if len(participating) != 1 {
			t.Errorf("Expected 1 participating event, got %d", len(participating))
		}

		none, err := store.ListUserEvents(ctx, "u3", "all")
		if err != nil {
			t.Fatalf("ListUserEvents failed: %v", err)
		}
		if len(none) != 0 {
			t.Errorf("Expected no events for u3, got %d", len(none))
		}
	})
}
