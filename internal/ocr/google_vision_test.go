package ocr

import (
	"testing"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"
)

func annotation(text string, vertices ...[2]int32) *visionpb.EntityAnnotation {
	a := &visionpb.EntityAnnotation{Description: text}
	if len(vertices) > 0 {
		poly := &visionpb.BoundingPoly{}
		for _, v := range vertices {
			poly.Vertices = append(poly.Vertices, &visionpb.Vertex{X: v[0], Y: v[1]})
		}
		a.BoundingPoly = poly
	}
	return a
}

func TestFragmentsFromAnnotations_ExcludesAggregate(t *testing.T) {
	annotations := []*visionpb.EntityAnnotation{
		annotation("Hello world।"), // synthetic whole-image aggregate
		annotation("Hello", [2]int32{10, 20}, [2]int32{50, 20}, [2]int32{50, 40}, [2]int32{10, 40}),
		annotation("world।", [2]int32{60, 20}, [2]int32{120, 20}, [2]int32{120, 40}, [2]int32{60, 40}),
	}

	fragments := fragmentsFromAnnotations(annotations)

	if len(fragments) != 2 {
		t.Fatalf("fragmentsFromAnnotations() returned %d fragments, want 2", len(fragments))
	}
	if fragments[0].Text != "Hello" {
		t.Errorf("first fragment text = %q, want %q", fragments[0].Text, "Hello")
	}
	if fragments[1].Text != "world।" {
		t.Errorf("second fragment text = %q, want %q", fragments[1].Text, "world।")
	}
	for _, f := range fragments {
		if f.Text == "Hello world।" {
			t.Error("aggregate annotation leaked into fragments")
		}
	}
}

func TestFragmentsFromAnnotations_BoundingBox(t *testing.T) {
	annotations := []*visionpb.EntityAnnotation{
		annotation("aggregate"),
		annotation("word", [2]int32{5, 7}, [2]int32{25, 7}, [2]int32{25, 19}, [2]int32{5, 19}),
	}

	fragments := fragmentsFromAnnotations(annotations)

	if len(fragments) != 1 {
		t.Fatalf("fragmentsFromAnnotations() returned %d fragments, want 1", len(fragments))
	}
	box := fragments[0].BoundingBox
	if len(box) != 4 {
		t.Fatalf("bounding box has %d points, want 4", len(box))
	}
	if box[0] != (Point{X: 5, Y: 7}) {
		t.Errorf("first bounding-box point = %+v, want {5 7}", box[0])
	}
	if fragments[0].Top() != 7 {
		t.Errorf("Top() = %d, want 7", fragments[0].Top())
	}
}

func TestFragmentsFromAnnotations_AggregateOnly(t *testing.T) {
	// A recognizer response with only the whole-image entry yields no fragments.
	annotations := []*visionpb.EntityAnnotation{annotation("just the aggregate")}

	if got := fragmentsFromAnnotations(annotations); got != nil {
		t.Errorf("fragmentsFromAnnotations() = %v, want nil", got)
	}
	if got := fragmentsFromAnnotations(nil); got != nil {
		t.Errorf("fragmentsFromAnnotations(nil) = %v, want nil", got)
	}
}

func TestFragmentTop_NoBoundingBox(t *testing.T) {
	f := Fragment{Text: "loose"}
	if f.Top() != 0 {
		t.Errorf("Top() without bounding box = %d, want 0", f.Top())
	}
}
