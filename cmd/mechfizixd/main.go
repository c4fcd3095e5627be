// Command mechfizixd is a headless scene driver: it loads a YAML scene
// file, steps a physics.World a fixed number of times, and prints the
// final pose of every body. It exists to give the domain-stack
// dependencies named in SPEC_FULL.md §10 a concrete home - the fixed-
// step scheduling loop itself is the caller's responsibility per
// spec.md, not something physics.World imposes.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"gopkg.in/yaml.v3"

	"github.com/kinetic3d/mechfizix/collider"
	"github.com/kinetic3d/mechfizix/math32"
	"github.com/kinetic3d/mechfizix/physics"
)

type sceneFile struct {
	Bounds struct {
		Min [3]float32 `yaml:"min"`
		Max [3]float32 `yaml:"max"`
	} `yaml:"bounds"`
	OctreeDepth int          `yaml:"octree_depth"`
	Steps       int          `yaml:"steps"`
	DeltaTime   float32      `yaml:"delta_time"`
	Bodies      []sceneBody  `yaml:"bodies"`
}

type sceneBody struct {
	UUID     string     `yaml:"uuid"`
	Shape    string     `yaml:"shape"` // "sphere" | "capsule"
	Radius   float32    `yaml:"radius"`
	Height   float32    `yaml:"height"`
	Position [3]float32 `yaml:"position"`
	Static   bool       `yaml:"static"`
	Material string     `yaml:"material"` // Iron|Rubber|Plastic|Concrete|Ground
}

func materialByName(name string) collider.Material {

	switch name {
	case "Iron":
		return collider.Iron
	case "Rubber":
		return collider.Rubber
	case "Plastic":
		return collider.Plastic
	case "Concrete":
		return collider.Concrete
	case "Ground":
		return collider.Ground
	default:
		return collider.Plastic
	}
}

func shapeFromBody(b sceneBody) collider.Shape {

	switch b.Shape {
	case "capsule":
		return &collider.Capsule{Radius: b.Radius, HalfHeight: b.Height / 2}
	default:
		return &collider.Sphere{Radius: b.Radius}
	}
}

func main() {

	scenePath := flag.String("scene", "", "path to a YAML scene file")
	tracePNG := flag.String("trace-png", "", "optional path to write a top-down PNG trace")
	flag.Parse()

	if *scenePath == "" {
		log.Fatal("mechfizixd: -scene is required")
	}

	raw, err := os.ReadFile(*scenePath)
	if err != nil {
		log.Fatalf("mechfizixd: %v", err)
	}

	var scene sceneFile
	if err := yaml.Unmarshal(raw, &scene); err != nil {
		log.Fatalf("mechfizixd: parsing scene: %v", err)
	}

	bound := math32.Box3{
		Min: math32.Vector3{X: scene.Bounds.Min[0], Y: scene.Bounds.Min[1], Z: scene.Bounds.Min[2]},
		Max: math32.Vector3{X: scene.Bounds.Max[0], Y: scene.Bounds.Max[1], Z: scene.Bounds.Max[2]},
	}
	depth := scene.OctreeDepth
	if depth <= 0 {
		depth = 4
	}

	world := physics.NewWorld(physics.DefaultSettings(), bound, depth)

	var tracked []trackedBody

	for _, b := range scene.Bodies {
		name := b.UUID
		if name == "" {
			name = uuid.NewString()
		}
		pose := math32.Transform3D{
			Position:    math32.Vector3{X: b.Position[0], Y: b.Position[1], Z: b.Position[2]},
			Orientation: math32.Quaternion{X: 0, Y: 0, Z: 0, W: 1},
		}
		shape := shapeFromBody(b)
		material := materialByName(b.Material)

		var id collider.ID
		if b.Static {
			id = world.AddStatic(shape, material, pose)
		} else {
			id = world.AddDynamic(shape, material, pose)
		}
		tracked = append(tracked, trackedBody{name: name, id: id})
	}

	dt := scene.DeltaTime
	if dt <= 0 {
		dt = 1.0 / 60.0
	}
	steps := scene.Steps
	if steps <= 0 {
		steps = 60
	}

	var frames [][]math32.Vector3
	for i := 0; i < steps; i++ {
		world.Step(dt)
		if *tracePNG != "" {
			frames = append(frames, centroids(world, tracked))
		}
	}

	for _, tb := range tracked {
		body, ok := world.GetRigidBody(tb.id)
		if !ok {
			fmt.Printf("%s: static\n", tb.name)
			continue
		}
		t := body.Transform()
		m := transformToMat4(t)
		fmt.Printf("%s: pos=(%.4f, %.4f, %.4f) mat4=%v\n", tb.name, t.Position.X, t.Position.Y, t.Position.Z, m)
	}

	if *tracePNG != "" {
		if err := writeTracePNG(*tracePNG, frames); err != nil {
			log.Fatalf("mechfizixd: writing trace: %v", err)
		}
	}
}

type trackedBody struct {
	name string
	id   collider.ID
}

func centroids(w *physics.World, tracked []trackedBody) []math32.Vector3 {

	out := make([]math32.Vector3, len(tracked))
	for i, tb := range tracked {
		if body, ok := w.GetRigidBody(tb.id); ok {
			out[i] = body.Transform().Position
		}
	}
	return out
}

// transformToMat4 converts a physics.RigidBody pose into an mgl32.Mat4,
// the seam a hypothetical renderer would consume - demonstrated here
// without pulling any windowing/GPU dependency into this headless
// driver.
func transformToMat4(t math32.Transform3D) mgl32.Mat4 {

	q := mgl32.Quat{W: t.Orientation.W, V: mgl32.Vec3{t.Orientation.X, t.Orientation.Y, t.Orientation.Z}}
	rot := q.Mat4()
	translate := mgl32.Translate3D(t.Position.X, t.Position.Y, t.Position.Z)
	return translate.Mul4(rot)
}

// writeTracePNG renders a top-down (XZ plane) trace of every tracked
// body's centroid across all recorded frames, labeling the final frame
// number with x/image/font/basicfont.
func writeTracePNG(path string, frames [][]math32.Vector3) error {

	const size = 512
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, color.White)
		}
	}

	palette := []color.RGBA{
		{R: 200, A: 255}, {G: 150, A: 255}, {B: 200, A: 255}, {R: 180, G: 120, A: 255},
	}

	for _, frame := range frames {
		for bi, c := range frame {
			px := int(c.X) + size/2
			py := int(c.Z) + size/2
			if px < 0 || px >= size || py < 0 || py >= size {
				continue
			}
			img.Set(px, py, palette[bi%len(palette)])
		}
	}

	label := fmt.Sprintf("frames=%d", len(frames))
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(4), Y: fixed.I(16)},
	}
	drawer.DrawString(label)

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return png.Encode(out, img)
}
