package navigator

import (
	"context"
	"errors"
	"testing"

	"github.com/socnav/socnav/internal/assistant"
	"github.com/socnav/socnav/internal/catalog"
	"github.com/socnav/socnav/internal/geo"
	"github.com/socnav/socnav/internal/lexicon"
	"github.com/socnav/socnav/internal/recommend"
	"github.com/socnav/socnav/internal/routing"
)

type stubRouter struct {
	path routing.Path
}

func (r *stubRouter) Route(ctx context.Context, from, to geo.Point) routing.Path {
	if len(r.path.Points) > 0 {
		return r.path
	}
	return routing.Path{
		Points:   []geo.Point{from, {Lon: (from.Lon + to.Lon) / 2, Lat: (from.Lat + to.Lat) / 2}, to},
		Provider: "stub",
	}
}

type stubCommenter struct {
	comment string
	err     error
	called  bool
}

func (c *stubCommenter) RouteComment(ctx context.Context, p assistant.CommentParams) (string, error) {
	c.called = true
	return c.comment, c.err
}

func newTestService(t *testing.T, router Router, commenter Commenter) *Service {
	t.Helper()
	repo, err := catalog.NewRepository()
	if err != nil {
		t.Fatal(err)
	}
	return NewService(ServiceConfig{
		Analyzer:  lexicon.NewAnalyzer(),
		Selector:  recommend.NewSelector(repo, recommend.Config{}),
		Router:    router,
		Catalog:   repo,
		Commenter: commenter,
	})
}

var center = geo.Point{Lon: 37.6, Lat: 54.2}

func TestBuildRoute_FullPipeline(t *testing.T) {
	commenter := &stubCommenter{comment: "Объект рядом и подходит вам."}
	svc := newTestService(t, &stubRouter{}, commenter)

	route, err := svc.BuildRoute(context.Background(), BuildRequest{
		Query:  "болят зубы",
		Origin: &center,
	})
	if err != nil {
		t.Fatal(err)
	}

	if route.ID == "" {
		t.Error("route has no id")
	}
	if route.Destination.Category != catalog.CategoryHealthcare {
		t.Errorf("destination category = %q", route.Destination.Category)
	}
	if route.StraightLine {
		t.Error("unexpected straight-line flag")
	}
	if route.Path[0] != route.From || route.Path[len(route.Path)-1] != route.To {
		t.Error("path endpoints not pinned to from/to")
	}
	if route.DistanceKm <= 0 {
		t.Error("distance not computed")
	}
	if !geo.RegionBounds.Contains(route.Viewport.Center) {
		t.Errorf("viewport center %+v outside region", route.Viewport.Center)
	}
	if route.Comment != commenter.comment {
		t.Errorf("comment = %q", route.Comment)
	}
}

func TestBuildRoute_EmptyQueryNoContext(t *testing.T) {
	svc := newTestService(t, &stubRouter{}, nil)

	_, err := svc.BuildRoute(context.Background(), BuildRequest{
		Query:  "   ",
		Origin: &center,
	})
	if !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("err = %v, want ErrEmptyQuery", err)
	}
}

func TestBuildRoute_EmptyQueryWithCategoryContext(t *testing.T) {
	svc := newTestService(t, &stubRouter{}, nil)

	route, err := svc.BuildRoute(context.Background(), BuildRequest{
		Categories: map[catalog.Category]bool{catalog.CategoryCulture: true},
		Origin:     &center,
	})
	if err != nil {
		t.Fatal(err)
	}
	if route.Destination.Category != catalog.CategoryCulture {
		t.Errorf("destination category = %q", route.Destination.Category)
	}
}

func TestBuildRoute_EmptyQueryWithProfileOnly(t *testing.T) {
	svc := newTestService(t, &stubRouter{}, nil)
	profile, _ := catalog.NewProfile(catalog.FlagWheelchair)

	route, err := svc.BuildRoute(context.Background(), BuildRequest{
		Profile: profile,
		Origin:  &center,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !route.Destination.IsAccessible(profile) {
		t.Errorf("destination %q violates the profile", route.Destination.ID)
	}
}

func TestBuildRoute_MissingOrigin(t *testing.T) {
	svc := newTestService(t, &stubRouter{}, nil)

	_, err := svc.BuildRoute(context.Background(), BuildRequest{Query: "зубы"})
	if !errors.Is(err, ErrNoLocation) {
		t.Fatalf("err = %v, want ErrNoLocation", err)
	}
}

func TestBuildRoute_OriginOutsideRegion(t *testing.T) {
	svc := newTestService(t, &stubRouter{}, nil)
	moscow := geo.Point{Lon: 37.62, Lat: 55.75}

	route, err := svc.BuildRoute(context.Background(), BuildRequest{
		Query:  "библиотека",
		Origin: &moscow,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !route.OriginAdjusted {
		t.Error("origin substitution not flagged")
	}
	if route.From != geo.RegionCenter {
		t.Errorf("route starts at %+v, want region center", route.From)
	}
}

func TestBuildRoute_StraightLineFallback(t *testing.T) {
	// Router degraded to the two-point segment; the route still builds.
	svc := newTestService(t, &stubRouter{path: routing.Path{
		Points:   []geo.Point{center, {Lon: 37.619288, Lat: 54.224696}},
		Provider: routing.FallbackProviderName,
		Fallback: true,
	}}, nil)

	route, err := svc.BuildRoute(context.Background(), BuildRequest{
		Query:  "зубы",
		Origin: &center,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !route.StraightLine {
		t.Error("straight-line flag not set")
	}
	if len(route.Path) != 2 {
		t.Errorf("path has %d points", len(route.Path))
	}
}

func TestBuildRoute_SelectionErrorsPropagate(t *testing.T) {
	svc := newTestService(t, &stubRouter{}, nil)
	profile, _ := catalog.NewProfile(catalog.FlagMental)

	_, err := svc.BuildRoute(context.Background(), BuildRequest{
		Query:   "зубы",
		Profile: profile,
		Origin:  &center,
	})
	if !errors.Is(err, recommend.ErrNoAccessible) {
		t.Fatalf("err = %v, want ErrNoAccessible", err)
	}
}

func TestBuildRoute_AssistantFailureIsNotFatal(t *testing.T) {
	commenter := &stubCommenter{err: errors.New("model is down")}
	svc := newTestService(t, &stubRouter{}, commenter)

	route, err := svc.BuildRoute(context.Background(), BuildRequest{
		Query:  "зубы",
		Origin: &center,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !commenter.called {
		t.Error("commenter not invoked")
	}
	if route.Comment != "" {
		t.Errorf("comment = %q, want empty after assistant failure", route.Comment)
	}
}
