package events

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/SergeyKozhin/shared-calendar/internal/model"
	"github.com/SergeyKozhin/shared-calendar/internal/recurrence"
	"github.com/SergeyKozhin/shared-calendar/internal/storage"
	"go.uber.org/zap"
)

type fakeStorage struct {
	events  []*model.Event
	saves   int
	loadErr error
	saveErr error
}

func (f *fakeStorage) Save(_ context.Context, events []*model.Event) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.events = cloneAll(events)
	return nil
}

func (f *fakeStorage) Load(_ context.Context) ([]*model.Event, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return cloneAll(f.events), nil
}

func date(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T, events ...*model.Event) (*Service, *fakeStorage) {
	t.Helper()

	st := &fakeStorage{events: events}
	s := NewService(context.Background(), zap.NewNop().Sugar(), st, time.UTC)
	s.now = func() time.Time { return date(2025, time.January, 15, 12) }
	return s, st
}

func stored(id string, d time.Time, rec model.Recurrence) *model.Event {
	return &model.Event{
		ID: id,
		EventCreate: model.EventCreate{
			Title:      id,
			Date:       d,
			Color:      model.ColorBlue,
			Recurrence: rec,
		},
	}
}

func ids(events []*model.Event) []string {
	res := make([]string, len(events))
	for i, e := range events {
		res[i] = e.ID
	}
	return res
}

func equalIDs(t *testing.T, got []*model.Event, want ...string) {
	t.Helper()

	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("ids = %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("ids = %v, want %v", g, want)
		}
	}
}

func TestNewServiceLoadFailureStartsEmpty(t *testing.T) {
	st := &fakeStorage{loadErr: errors.New("corrupt")}
	s := NewService(context.Background(), zap.NewNop().Sugar(), st, time.UTC)

	if n := len(s.Events()); n != 0 {
		t.Fatalf("events = %d, want 0", n)
	}
}

func TestCreateEventDefaultsAndPersists(t *testing.T) {
	s, st := newTestService(t)

	e := s.CreateEvent(context.Background(), &model.EventCreate{Date: date(2025, time.March, 1, 9)})

	if e.ID == "" {
		t.Fatal("expected generated id")
	}
	if e.Title != model.DefaultTitle || e.Color != model.ColorBlue || e.Recurrence.Type != model.RecurrenceTypeNone {
		t.Fatalf("unexpected defaults: %+v", e)
	}
	if st.saves != 1 || len(st.events) != 1 || st.events[0].ID != e.ID {
		t.Fatalf("storage not written: saves=%d events=%v", st.saves, ids(st.events))
	}
}

func TestSaveFailureKeepsMemoryState(t *testing.T) {
	s, st := newTestService(t)
	st.saveErr = errors.New("disk full")

	s.Add(context.Background(), stored("a", date(2025, time.January, 1, 9), model.Recurrence{Type: model.RecurrenceTypeNone}))

	equalIDs(t, s.Events(), "a")
}

func TestUpdateEvent(t *testing.T) {
	s, st := newTestService(t, stored("a", date(2025, time.January, 1, 9), model.Recurrence{Type: model.RecurrenceTypeNone}))

	upd := stored("a", date(2025, time.January, 2, 9), model.Recurrence{Type: model.RecurrenceTypeNone})
	upd.Title = "renamed"
	if err := s.UpdateEvent(context.Background(), upd); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := s.Events()[0]; got.Title != "renamed" || !got.Date.Equal(upd.Date) {
		t.Fatalf("update not applied: %+v", got)
	}

	saves := st.saves
	err := s.UpdateEvent(context.Background(), stored("missing", date(2025, time.January, 2, 9), model.Recurrence{}))
	if !errors.Is(err, model.ErrNoRecord) {
		t.Fatalf("err = %v, want ErrNoRecord", err)
	}
	if st.saves != saves {
		t.Fatal("unknown id must not persist")
	}
	equalIDs(t, s.Events(), "a")
}

func TestReturnedEventsAreCopies(t *testing.T) {
	s, _ := newTestService(t, stored("a", date(2025, time.January, 1, 9), model.Recurrence{Type: model.RecurrenceTypeWeekly, Weekdays: []time.Weekday{time.Monday}}))

	got := s.Events()
	got[0].Title = "changed"
	got[0].Recurrence.Weekdays[0] = time.Friday

	e := s.Events()[0]
	if e.Title != "a" || e.Recurrence.Weekdays[0] != time.Monday {
		t.Fatalf("store mutated through returned copy: %+v", e)
	}
}

func TestOccurrencesInRangeEndToEnd(t *testing.T) {
	s, _ := newTestService(t,
		stored("tpl", date(2025, time.January, 1, 10), model.Recurrence{Type: model.RecurrenceTypeDaily, Interval: 2}),
		stored("single", date(2025, time.January, 4, 10), model.Recurrence{Type: model.RecurrenceTypeNone}),
	)

	filter := model.EventsFilter{From: date(2025, time.January, 1, 0), To: date(2025, time.January, 10, 0)}
	first := s.OccurrencesInRange(filter)

	equalIDs(t, first, "tpl-2025-01-01", "tpl-2025-01-03", "tpl-2025-01-05", "tpl-2025-01-07", "tpl-2025-01-09")
	for _, occ := range first {
		if occ.ParentID != "tpl" || occ.Date.Hour() != 10 {
			t.Fatalf("bad occurrence %+v", occ)
		}
	}

	second := s.OccurrencesInRange(filter)
	equalIDs(t, second, ids(first)...)
	for i := range first {
		if !first[i].Date.Equal(second[i].Date) {
			t.Fatalf("occurrence %d differs between calls", i)
		}
	}
}

func TestOccurrencesInRangeOrdering(t *testing.T) {
	events := []*model.Event{
		stored("b", date(2025, time.January, 1, 18), model.Recurrence{Type: model.RecurrenceTypeDaily}),
		stored("a", date(2025, time.January, 1, 8), model.Recurrence{Type: model.RecurrenceTypeDaily}),
	}

	var got []*model.Event
	for occ := range OccurrencesInRange(events, date(2025, time.January, 1, 0), date(2025, time.January, 2, 0)) {
		got = append(got, occ)
	}

	equalIDs(t, got, "b-2025-01-01", "a-2025-01-01", "b-2025-01-02", "a-2025-01-02")
}

func TestOccurrencesOnDay(t *testing.T) {
	events := []*model.Event{
		stored("tpl", date(2025, time.January, 1, 10), model.Recurrence{Type: model.RecurrenceTypeDaily}),
		stored("single", date(2025, time.January, 3, 15), model.Recurrence{Type: model.RecurrenceTypeNone}),
		stored("other", date(2025, time.January, 4, 15), model.Recurrence{Type: model.RecurrenceTypeNone}),
	}

	got := OccurrencesOnDay(events, date(2025, time.January, 3, 0))
	equalIDs(t, got, "tpl-2025-01-03", "single")

	got = OccurrencesOnDay(events, date(2025, time.January, 1, 23))
	equalIDs(t, got, "tpl")
}

func TestInstanceIDRoundTrip(t *testing.T) {
	id := InstanceID("3f2a-uuid", date(2025, time.February, 7, 0))
	if id != "3f2a-uuid-2025-02-07" {
		t.Fatalf("id = %q", id)
	}

	tpl, day, ok := ParseInstanceID(id)
	if !ok || tpl != "3f2a-uuid" || !day.Equal(date(2025, time.February, 7, 0)) {
		t.Fatalf("parse = %q %v %v", tpl, day, ok)
	}

	for _, bad := range []string{"", "2025-02-07", "abc", "tpl-2025-13-07", "tpl_2025-02-07"} {
		if _, _, ok := ParseInstanceID(bad); ok {
			t.Errorf("ParseInstanceID(%q) accepted", bad)
		}
	}
}

func TestDeleteSeries(t *testing.T) {
	s, _ := newTestService(t,
		stored("tpl", date(2025, time.January, 1, 10), model.Recurrence{Type: model.RecurrenceTypeDaily}),
		&model.Event{ID: "child1", ParentID: "tpl", EventCreate: model.EventCreate{Date: date(2025, time.January, 5, 10)}},
		&model.Event{ID: "child2", ParentID: "tpl", EventCreate: model.EventCreate{Date: date(2025, time.January, 6, 10)}},
		stored("keep", date(2025, time.January, 1, 10), model.Recurrence{Type: model.RecurrenceTypeNone}),
	)

	if err := s.DeleteEvent(context.Background(), "tpl", true); err != nil {
		t.Fatalf("delete: %v", err)
	}
	equalIDs(t, s.Events(), "keep")
}

func TestDeleteSeriesFromChild(t *testing.T) {
	s, _ := newTestService(t,
		stored("tpl", date(2025, time.January, 1, 10), model.Recurrence{Type: model.RecurrenceTypeDaily}),
		&model.Event{ID: "child1", ParentID: "tpl", EventCreate: model.EventCreate{Date: date(2025, time.January, 5, 10)}},
		stored("keep", date(2025, time.January, 1, 10), model.Recurrence{Type: model.RecurrenceTypeNone}),
	)

	if err := s.DeleteEvent(context.Background(), "child1", true); err != nil {
		t.Fatalf("delete: %v", err)
	}
	equalIDs(t, s.Events(), "keep")
}

func TestDeleteSeriesFromOccurrenceID(t *testing.T) {
	s, _ := newTestService(t,
		stored("tpl", date(2025, time.January, 1, 10), model.Recurrence{Type: model.RecurrenceTypeDaily}),
		stored("keep", date(2025, time.January, 1, 10), model.Recurrence{Type: model.RecurrenceTypeNone}),
	)

	if err := s.DeleteEvent(context.Background(), "tpl-2025-01-04", true); err != nil {
		t.Fatalf("delete: %v", err)
	}
	equalIDs(t, s.Events(), "keep")
}

func TestDeleteSingleStoredInstance(t *testing.T) {
	s, _ := newTestService(t,
		stored("tpl", date(2025, time.January, 1, 10), model.Recurrence{Type: model.RecurrenceTypeDaily}),
		&model.Event{ID: "child1", ParentID: "tpl", EventCreate: model.EventCreate{Date: date(2025, time.January, 5, 10)}},
		&model.Event{ID: "child2", ParentID: "tpl", EventCreate: model.EventCreate{Date: date(2025, time.January, 6, 10)}},
	)

	if err := s.DeleteEvent(context.Background(), "child1", false); err != nil {
		t.Fatalf("delete: %v", err)
	}
	equalIDs(t, s.Events(), "tpl", "child2")
}

func TestDeleteMaterializedOccurrence(t *testing.T) {
	s, _ := newTestService(t,
		stored("tpl", date(2025, time.January, 1, 10), model.Recurrence{Type: model.RecurrenceTypeDaily}),
	)

	if err := s.DeleteEvent(context.Background(), "tpl-2025-01-03", false); err != nil {
		t.Fatalf("delete: %v", err)
	}

	equalIDs(t, s.Events(), "tpl")
	got := s.OccurrencesInRange(model.EventsFilter{From: date(2025, time.January, 2, 0), To: date(2025, time.January, 4, 0)})
	equalIDs(t, got, "tpl-2025-01-02", "tpl-2025-01-04")
}

func TestDeleteMaterializedOccurrenceSurvivesReload(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	ctx := context.Background()
	st := storage.NewDocumentStorage(storage.NewMemoryBlobs(), storage.NewCodec(loc))
	tpl := stored("tpl", time.Date(2025, time.January, 1, 10, 0, 0, 0, loc), model.Recurrence{Type: model.RecurrenceTypeDaily})
	if err := st.Save(ctx, []*model.Event{tpl}); err != nil {
		t.Fatalf("save: %v", err)
	}

	s := NewService(ctx, zap.NewNop().Sugar(), st, loc)
	if err := s.DeleteEvent(ctx, "tpl-2025-01-03", false); err != nil {
		t.Fatalf("delete: %v", err)
	}

	reloaded := NewService(ctx, zap.NewNop().Sugar(), st, loc)
	for _, svc := range []*Service{s, reloaded} {
		equalIDs(t, svc.OccurrencesOnDay(time.Date(2025, time.January, 2, 0, 0, 0, 0, loc)), "tpl-2025-01-02")
		equalIDs(t, svc.OccurrencesOnDay(time.Date(2025, time.January, 3, 0, 0, 0, 0, loc)))
		equalIDs(t, svc.OccurrencesOnDay(time.Date(2025, time.January, 4, 0, 0, 0, 0, loc)), "tpl-2025-01-04")
	}

	ex := reloaded.Events()[0].Recurrence.Exceptions
	if len(ex) != 1 || !recurrence.SameDay(ex[0], time.Date(2025, time.January, 3, 0, 0, 0, 0, loc)) {
		t.Fatalf("exceptions = %v", ex)
	}
}

func TestDeleteUnknown(t *testing.T) {
	s, _ := newTestService(t, stored("a", date(2025, time.January, 1, 10), model.Recurrence{Type: model.RecurrenceTypeNone}))

	for _, series := range []bool{false, true} {
		if err := s.DeleteEvent(context.Background(), "missing", series); !errors.Is(err, model.ErrNoRecord) {
			t.Fatalf("series=%v err = %v, want ErrNoRecord", series, err)
		}
	}
	equalIDs(t, s.Events(), "a")
}

func TestMoveOccurrenceDetaches(t *testing.T) {
	s, _ := newTestService(t,
		stored("tpl", date(2025, time.January, 1, 10), model.Recurrence{Type: model.RecurrenceTypeDaily}),
	)

	occ, err := s.Resolve("tpl-2025-01-03")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	moved, err := s.MoveEvent(context.Background(), occ, date(2025, time.January, 20, 0))
	if err != nil {
		t.Fatalf("move: %v", err)
	}

	if moved.ID == "tpl" || moved.ID == occ.ID || moved.ParentID != "" {
		t.Fatalf("expected fresh standalone event, got %+v", moved)
	}
	if moved.Recurrence.Type != model.RecurrenceTypeNone || moved.Title != "tpl" {
		t.Fatalf("unexpected detached event %+v", moved)
	}
	if want := date(2025, time.January, 20, 10); !moved.Date.Equal(want) {
		t.Fatalf("date = %v, want %v", moved.Date, want)
	}

	events := s.Events()
	equalIDs(t, events, "tpl", moved.ID)
	if !events[0].Date.Equal(date(2025, time.January, 1, 10)) {
		t.Fatalf("template anchor changed: %v", events[0].Date)
	}

	got := s.OccurrencesInRange(model.EventsFilter{From: date(2025, time.January, 2, 0), To: date(2025, time.January, 4, 0)})
	equalIDs(t, got, "tpl-2025-01-02", "tpl-2025-01-03", "tpl-2025-01-04")
}

func TestMoveTemplateShiftsSeries(t *testing.T) {
	s, _ := newTestService(t,
		stored("tpl", date(2025, time.January, 1, 10), model.Recurrence{Type: model.RecurrenceTypeDaily, Interval: 2}),
	)

	tpl, _ := s.Resolve("tpl")
	moved, err := s.MoveEvent(context.Background(), tpl, date(2025, time.January, 2, 23))
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved.ID != "tpl" || !moved.Date.Equal(date(2025, time.January, 2, 10)) {
		t.Fatalf("unexpected moved template %+v", moved)
	}

	got := s.OccurrencesInRange(model.EventsFilter{From: date(2025, time.January, 1, 0), To: date(2025, time.January, 6, 0)})
	equalIDs(t, got, "tpl-2025-01-02", "tpl-2025-01-04", "tpl-2025-01-06")
}

func TestMoveUnknown(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.MoveEvent(context.Background(), stored("x", date(2025, time.January, 1, 10), model.Recurrence{}), date(2025, time.January, 2, 0))
	if !errors.Is(err, model.ErrNoRecord) {
		t.Fatalf("err = %v, want ErrNoRecord", err)
	}
}

func TestFindConflicts(t *testing.T) {
	events := []*model.Event{
		stored("a", date(2025, time.January, 1, 8), model.Recurrence{Type: model.RecurrenceTypeNone}),
		stored("b", date(2025, time.January, 1, 23), model.Recurrence{Type: model.RecurrenceTypeNone}),
		stored("c", date(2025, time.January, 2, 8), model.Recurrence{Type: model.RecurrenceTypeNone}),
	}

	got := FindConflicts(events, events[0])
	equalIDs(t, got, "b")

	candidate := stored("new", date(2025, time.January, 2, 20), model.Recurrence{Type: model.RecurrenceTypeNone})
	equalIDs(t, FindConflicts(events, candidate), "c")
}

func TestServiceFindConflictsIncludesOccurrences(t *testing.T) {
	s, _ := newTestService(t,
		stored("tpl", date(2025, time.January, 1, 10), model.Recurrence{Type: model.RecurrenceTypeWeekly}),
		stored("single", date(2025, time.January, 8, 18), model.Recurrence{Type: model.RecurrenceTypeNone}),
	)

	got := s.FindConflicts(stored("single", date(2025, time.January, 8, 18), model.Recurrence{}))
	equalIDs(t, got, "tpl-2025-01-08")
}

func TestSearch(t *testing.T) {
	a := stored("a", date(2025, time.January, 1, 8), model.Recurrence{Type: model.RecurrenceTypeNone})
	a.Title = "Team Standup"
	b := stored("b", date(2025, time.January, 1, 8), model.Recurrence{Type: model.RecurrenceTypeNone})
	b.Title = "Dentist"
	b.Description = "bring the standup notes"
	c := stored("c", date(2025, time.January, 1, 8), model.Recurrence{Type: model.RecurrenceTypeNone})
	c.Title = "Gym"

	s, _ := newTestService(t, a, b, c)

	equalIDs(t, s.Search("STANDUP"), "a", "b")
	equalIDs(t, s.Search(""), "a", "b", "c")
	equalIDs(t, s.Search("nothing"))
}

func TestMonthGrid(t *testing.T) {
	s, _ := newTestService(t,
		stored("tpl", date(2025, time.January, 1, 10), model.Recurrence{Type: model.RecurrenceTypeWeekly}),
	)

	month := s.Month(date(2025, time.January, 20, 0))
	if month.Month != time.January || month.Year != 2025 {
		t.Fatalf("month = %v %d", month.Month, month.Year)
	}

	// January 2025 starts on a Wednesday and ends on a Friday.
	if len(month.Days) != 35 {
		t.Fatalf("days = %d, want 35", len(month.Days))
	}
	first, last := month.Days[0], month.Days[len(month.Days)-1]
	if !first.Date.Equal(date(2024, time.December, 29, 0)) || first.IsCurrentMonth {
		t.Fatalf("first day %+v", first)
	}
	if !last.Date.Equal(date(2025, time.February, 1, 0)) || last.IsCurrentMonth {
		t.Fatalf("last day %+v", last)
	}

	var today, withEvents int
	for _, d := range month.Days {
		if d.IsToday {
			today++
			if d.Date.Day() != 15 {
				t.Errorf("today flagged on %v", d.Date)
			}
		}
		if len(d.Events) > 0 {
			withEvents++
			if d.Date.Weekday() != time.Wednesday {
				t.Errorf("weekly event on %v", d.Date)
			}
		}
	}
	if today != 1 || withEvents != 5 {
		t.Fatalf("today=%d withEvents=%d", today, withEvents)
	}
}

func TestWeekGrid(t *testing.T) {
	s, _ := newTestService(t)

	week := s.Week(date(2025, time.January, 1, 9))
	if len(week) != 7 {
		t.Fatalf("days = %d", len(week))
	}
	if week[0].Date.Weekday() != time.Sunday || !week[0].Date.Equal(date(2024, time.December, 29, 0)) {
		t.Fatalf("week starts %v", week[0].Date)
	}
	if week[0].IsCurrentMonth || !week[3].IsCurrentMonth {
		t.Fatal("current month flags wrong")
	}
}

func TestCurrentDate(t *testing.T) {
	s, _ := newTestService(t)

	d := date(2030, time.May, 5, 0)
	s.SetCurrentDate(d)
	if !s.CurrentDate().Equal(d) {
		t.Fatalf("current date = %v", s.CurrentDate())
	}
}

type fakeRemote struct {
	exported  []*model.Event
	imported  []*model.Event
	exportErr error
}

func (f *fakeRemote) ExportEvents(_ context.Context, events []*model.Event) error {
	if f.exportErr != nil {
		return f.exportErr
	}
	f.exported = events
	return nil
}

func (f *fakeRemote) ImportEvents(context.Context) ([]*model.Event, error) {
	return f.imported, nil
}

func TestSync(t *testing.T) {
	s, st := newTestService(t, stored("local", date(2025, time.January, 1, 10), model.Recurrence{Type: model.RecurrenceTypeNone}))
	remote := &fakeRemote{imported: []*model.Event{stored("remote", date(2025, time.January, 2, 10), model.Recurrence{Type: model.RecurrenceTypeNone})}}

	n, err := s.Sync(context.Background(), func(context.Context) (RemoteCalendar, error) { return remote, nil })
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if n != 1 {
		t.Fatalf("imported = %d", n)
	}
	equalIDs(t, remote.exported, "local")
	equalIDs(t, s.Events(), "local", "remote")
	equalIDs(t, st.events, "local", "remote")
}

func TestSyncSkipsKnownIDs(t *testing.T) {
	s, st := newTestService(t, stored("local", date(2025, time.January, 1, 10), model.Recurrence{Type: model.RecurrenceTypeNone}))
	remote := &fakeRemote{imported: []*model.Event{
		stored("g1", date(2025, time.January, 2, 10), model.Recurrence{Type: model.RecurrenceTypeNone}),
		stored("g1", date(2025, time.January, 2, 10), model.Recurrence{Type: model.RecurrenceTypeNone}),
	}}
	connect := func(context.Context) (RemoteCalendar, error) { return remote, nil }

	n, err := s.Sync(context.Background(), connect)
	if err != nil || n != 1 {
		t.Fatalf("first sync = %d, %v", n, err)
	}

	n, err = s.Sync(context.Background(), connect)
	if err != nil || n != 0 {
		t.Fatalf("second sync = %d, %v", n, err)
	}
	equalIDs(t, remote.exported, "local", "g1")
	equalIDs(t, s.Events(), "local", "g1")
	equalIDs(t, st.events, "local", "g1")

	if err := s.DeleteEvent(context.Background(), "g1", false); err != nil {
		t.Fatalf("delete: %v", err)
	}
	equalIDs(t, s.Events(), "local")
}

func TestSyncErrors(t *testing.T) {
	connectErr := errors.New("bad code")
	exportErr := errors.New("quota")

	tests := []struct {
		name    string
		connect func(context.Context) (RemoteCalendar, error)
		want    error
	}{
		{
			name:    "connect",
			connect: func(context.Context) (RemoteCalendar, error) { return nil, connectErr },
			want:    connectErr,
		},
		{
			name:    "export",
			connect: func(context.Context) (RemoteCalendar, error) { return &fakeRemote{exportErr: exportErr}, nil },
			want:    exportErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestService(t, stored("local", date(2025, time.January, 1, 10), model.Recurrence{Type: model.RecurrenceTypeNone}))

			if _, err := s.Sync(context.Background(), tt.connect); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			equalIDs(t, s.Events(), "local")
		})
	}
}
