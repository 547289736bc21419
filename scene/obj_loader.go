package scene

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"scene-editor/core"
	"scene-editor/math"
)

// objRef points at one corner of a face. Indices are 0-based, -1 when the
// attribute is absent.
type objRef struct {
	v, vt, vn int
}

type objGroup struct {
	name  string
	faces [][3]objRef
}

// LoadOBJ reads a Wavefront .obj file. Each "o" or "g" section becomes one
// GameObject.
func LoadOBJ(path string, logger *slog.Logger) ([]*GameObject, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	meshes, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("parse obj %q: %w", path, err)
	}

	objects := make([]*GameObject, 0, len(meshes))
	for _, m := range meshes {
		o := NewGameObject(m.Name, m, DefaultMaterial())
		o.Source = path
		objects = append(objects, o)
	}
	logger.Info("model loaded", "file", path, "objects", len(objects))
	return objects, nil
}

// ParseOBJ parses OBJ text into meshes. Polygons are fan-triangulated and
// negative (relative) indices are resolved against the elements read so far.
// Material statements are ignored.
func ParseOBJ(r io.Reader) ([]*Mesh, error) {
	var positions, normals []math.Vec3
	var uvs []math.Vec2

	var groups []*objGroup
	cur := &objGroup{name: "default"}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v", "vn":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			vec := math.Vec3{X: v[0], Y: v[1], Z: v[2]}
			if fields[0] == "v" {
				positions = append(positions, vec)
			} else {
				normals = append(normals, vec)
			}

		case "vt":
			// u [v [w]]; v defaults to 0 and w is ignored.
			v, err := parseFloats(fields[1:], 1)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			uv := math.Vec2{X: v[0]}
			if len(fields) > 2 {
				if v, err = parseFloats(fields[1:], 2); err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				uv.Y = v[1]
			}
			uvs = append(uvs, uv)

		case "o", "g":
			if len(cur.faces) > 0 {
				groups = append(groups, cur)
			}
			name := "default"
			if len(fields) > 1 {
				name = strings.Join(fields[1:], " ")
			}
			cur = &objGroup{name: name}

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			refs := make([]objRef, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				ref, err := parseOBJRef(tok, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				refs = append(refs, ref)
			}
			for i := 1; i+1 < len(refs); i++ {
				cur.faces = append(cur.faces, [3]objRef{refs[0], refs[i], refs[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan obj: %w", err)
	}
	if len(cur.faces) > 0 {
		groups = append(groups, cur)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("no faces")
	}

	meshes := make([]*Mesh, 0, len(groups))
	for _, g := range groups {
		meshes = append(meshes, buildOBJMesh(g, positions, normals, uvs))
	}
	return meshes, nil
}

// parseOBJRef parses "v", "v/vt", "v//vn" or "v/vt/vn".
func parseOBJRef(tok string, nv, nvt, nvn int) (objRef, error) {
	parts := strings.Split(tok, "/")
	ref := objRef{v: -1, vt: -1, vn: -1}
	counts := [3]int{nv, nvt, nvn}
	dst := [3]*int{&ref.v, &ref.vt, &ref.vn}

	for i := 0; i < len(parts) && i < 3; i++ {
		if parts[i] == "" {
			continue
		}
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return ref, fmt.Errorf("bad index %q", tok)
		}
		idx := n - 1
		if n < 0 {
			idx = counts[i] + n
		}
		if n == 0 || idx < 0 || idx >= counts[i] {
			return ref, fmt.Errorf("index %d out of range in %q", n, tok)
		}
		*dst[i] = idx
	}
	if ref.v < 0 {
		return ref, fmt.Errorf("face vertex %q has no position", tok)
	}
	return ref, nil
}

// buildOBJMesh emits one vertex per distinct (v, vt, vn) triple. Faces
// without normals get their flat face normal.
func buildOBJMesh(g *objGroup, positions, normals []math.Vec3, uvs []math.Vec2) *Mesh {
	seen := make(map[objRef]uint32)
	var vertices []core.Vertex
	indices := make([]uint32, 0, len(g.faces)*3)

	for _, face := range g.faces {
		a, b, c := positions[face[0].v], positions[face[1].v], positions[face[2].v]
		flat := b.Sub(a).Cross(c.Sub(a)).Normalize()

		for _, ref := range face {
			key := ref
			if ref.vn < 0 {
				// Flat normals differ per face, so such corners are not shared.
				key.vn = -2 - len(indices)
			}
			if idx, ok := seen[key]; ok {
				indices = append(indices, idx)
				continue
			}

			v := core.Vertex{Position: positions[ref.v], Normal: flat}
			if ref.vn >= 0 {
				v.Normal = normals[ref.vn]
			}
			if ref.vt >= 0 {
				v.UV = uvs[ref.vt]
			}
			idx := uint32(len(vertices))
			vertices = append(vertices, v)
			seen[key] = idx
			indices = append(indices, idx)
		}
	}

	return NewMesh(g.name, vertices, indices)
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d numbers, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", fields[i])
		}
		out[i] = float32(f)
	}
	return out, nil
}
