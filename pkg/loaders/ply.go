package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// PLYElement is an element declaration and its properties
type PLYElement struct {
	Name  string
	Count int
	Props []PLYProperty
}

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format   string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version  string // Usually "1.0"
	Elements []PLYElement
}

// PLYData contains the geometry loaded from a PLY file
type PLYData struct {
	Vertices  []mgl64.Vec3 // Vertex positions (x, y, z)
	Faces     []int        // Triangle indices (3 per triangle), polygons are fan-triangulated
	TexCoords []core.Vec2  // Per-vertex texture coordinates (u, v), empty if not present
}

// LoadPLY loads a PLY file
func LoadPLY(filename string) (*PLYData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	data, err := ReadPLY(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// ReadPLY decodes ASCII and binary PLY data
func ReadPLY(r io.Reader) (*PLYData, error) {
	reader := bufio.NewReaderSize(r, 1024*1024)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var values plyValueReader
	switch header.Format {
	case "ascii":
		scanner := bufio.NewScanner(reader)
		scanner.Split(bufio.ScanWords)
		values = &asciiValueReader{scanner: scanner}
	case "binary_little_endian":
		values = &binaryValueReader{reader: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryValueReader{reader: reader, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("unsupported PLY format: %s", header.Format)
	}

	data := &PLYData{}
	for _, element := range header.Elements {
		switch element.Name {
		case "vertex":
			err = readVertices(values, element, data)
		case "face":
			err = readFaces(values, element, data)
		default:
			err = skipElement(values, element)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s data: %w", element.Name, err)
		}
	}

	for _, idx := range data.Faces {
		if idx < 0 || idx >= len(data.Vertices) {
			return nil, fmt.Errorf("face references vertex %d of %d", idx, len(data.Vertices))
		}
	}

	return data, nil
}

// parsePLYHeader reads header lines up to and including end_header
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}

	magic, err := reader.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, fmt.Errorf("missing ply magic number")
	}

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("error reading header: %w", err)
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "end_header":
			if header.Format == "" {
				return nil, fmt.Errorf("missing format line")
			}
			return header, nil
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid format line: %q", strings.TrimSpace(line))
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
			// Ignore comments
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element line: %q", strings.TrimSpace(line))
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count: %s", parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, fmt.Errorf("property declared before any element")
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("failed to parse property: %w", err)
			}
			current := &header.Elements[len(header.Elements)-1]
			current.Props = append(current.Props, prop)
		default:
			return nil, fmt.Errorf("unknown header keyword: %s", parts[0])
		}
	}
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("invalid property definition")
	}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("invalid list property definition")
		}
		return PLYProperty{IsList: true, ListType: parts[1], DataType: parts[2], Name: parts[3]}, nil
	}
	return PLYProperty{Type: parts[0], Name: parts[1]}, nil
}

// readVertices reads positions and optional texture coordinates
func readVertices(values plyValueReader, element PLYElement, data *PLYData) error {
	index := map[string]int{}
	for i, prop := range element.Props {
		index[prop.Name] = i
	}
	for _, axis := range []string{"x", "y", "z"} {
		if _, ok := index[axis]; !ok {
			return fmt.Errorf("vertex element has no %s property", axis)
		}
	}
	uIndex, hasU := firstIndex(index, "u", "s", "texture_u")
	vIndex, hasV := firstIndex(index, "v", "t", "texture_v")
	hasTexCoords := hasU && hasV

	data.Vertices = make([]mgl64.Vec3, 0, element.Count)
	if hasTexCoords {
		data.TexCoords = make([]core.Vec2, 0, element.Count)
	}

	row := make([]float64, len(element.Props))
	for i := 0; i < element.Count; i++ {
		for j, prop := range element.Props {
			if prop.IsList {
				if _, err := readList(values, prop); err != nil {
					return err
				}
				continue
			}
			v, err := values.scalar(prop.Type)
			if err != nil {
				return fmt.Errorf("vertex %d: %w", i, err)
			}
			row[j] = v
		}

		data.Vertices = append(data.Vertices, mgl64.Vec3{row[index["x"]], row[index["y"]], row[index["z"]]})
		if hasTexCoords {
			data.TexCoords = append(data.TexCoords, core.NewVec2(row[uIndex], row[vIndex]))
		}
	}
	return nil
}

func firstIndex(index map[string]int, names ...string) (int, bool) {
	for _, name := range names {
		if i, ok := index[name]; ok {
			return i, true
		}
	}
	return 0, false
}

// readFaces reads vertex index lists, triangulating polygons as fans
func readFaces(values plyValueReader, element PLYElement, data *PLYData) error {
	data.Faces = make([]int, 0, element.Count*3)

	for i := 0; i < element.Count; i++ {
		for _, prop := range element.Props {
			if !prop.IsList {
				if _, err := values.scalar(prop.Type); err != nil {
					return fmt.Errorf("face %d: %w", i, err)
				}
				continue
			}

			indices, err := readList(values, prop)
			if err != nil {
				return fmt.Errorf("face %d: %w", i, err)
			}
			if prop.Name != "vertex_indices" && prop.Name != "vertex_index" {
				continue
			}
			if len(indices) < 3 {
				return fmt.Errorf("face %d has %d vertices", i, len(indices))
			}
			for k := 1; k+1 < len(indices); k++ {
				data.Faces = append(data.Faces, indices[0], indices[k], indices[k+1])
			}
		}
	}
	return nil
}

// skipElement reads and discards every instance of an element
func skipElement(values plyValueReader, element PLYElement) error {
	for i := 0; i < element.Count; i++ {
		for _, prop := range element.Props {
			var err error
			if prop.IsList {
				_, err = readList(values, prop)
			} else {
				_, err = values.scalar(prop.Type)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func readList(values plyValueReader, prop PLYProperty) ([]int, error) {
	count, err := values.scalar(prop.ListType)
	if err != nil {
		return nil, fmt.Errorf("list count of %s: %w", prop.Name, err)
	}
	if count < 0 || count != math.Trunc(count) {
		return nil, fmt.Errorf("invalid list count %g for %s", count, prop.Name)
	}

	items := make([]int, int(count))
	for i := range items {
		v, err := values.scalar(prop.DataType)
		if err != nil {
			return nil, fmt.Errorf("list item of %s: %w", prop.Name, err)
		}
		items[i] = int(v)
	}
	return items, nil
}

// plyValueReader reads one scalar of a PLY type from the body
type plyValueReader interface {
	scalar(dataType string) (float64, error)
}

type asciiValueReader struct {
	scanner *bufio.Scanner
}

func (a *asciiValueReader) scalar(dataType string) (float64, error) {
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	return strconv.ParseFloat(a.scanner.Text(), 64)
}

type binaryValueReader struct {
	reader io.Reader
	order  binary.ByteOrder
}

func (b *binaryValueReader) scalar(dataType string) (float64, error) {
	switch dataType {
	case "char", "int8":
		var v int8
		err := binary.Read(b.reader, b.order, &v)
		return float64(v), err
	case "uchar", "uint8":
		var v uint8
		err := binary.Read(b.reader, b.order, &v)
		return float64(v), err
	case "short", "int16":
		var v int16
		err := binary.Read(b.reader, b.order, &v)
		return float64(v), err
	case "ushort", "uint16":
		var v uint16
		err := binary.Read(b.reader, b.order, &v)
		return float64(v), err
	case "int", "int32":
		var v int32
		err := binary.Read(b.reader, b.order, &v)
		return float64(v), err
	case "uint", "uint32":
		var v uint32
		err := binary.Read(b.reader, b.order, &v)
		return float64(v), err
	case "float", "float32":
		var v float32
		err := binary.Read(b.reader, b.order, &v)
		return float64(v), err
	case "double", "float64":
		var v float64
		err := binary.Read(b.reader, b.order, &v)
		return v, err
	default:
		return 0, fmt.Errorf("unsupported PLY data type: %s", dataType)
	}
}
