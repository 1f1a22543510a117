package frs

import (
	"encoding/json"
	"io"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/reachnav/reachplan/polynomial"
)

// modelJSON is the on-disk form of one FRS bracket. Exponent vectors for "w"
// have length 4 ([z1, z2, k1, k2]); the parameter mappings have length 2
// ([k1, k2]).
type modelJSON struct {
	Name          string            `json:"name"`
	VRange        []float64         `json:"v_range"`
	DeltaV        float64           `json:"delta_v"`
	TPlan         float64           `json:"t_plan"`
	DistanceScale float64           `json:"distance_scale"`
	Offset        []float64         `json:"initial_offset"`
	W             []polynomial.Term `json:"w"`
	XDes          []polynomial.Term `json:"x_des"`
	YDes          []polynomial.Term `json:"y_des"`
	WDes          []polynomial.Term `json:"w_des"`
	VDes          []polynomial.Term `json:"v_des"`
}

type libraryJSON struct {
	Models []modelJSON `json:"models"`
}

// DecodeModels reads a JSON FRS library from r.
func DecodeModels(r io.Reader) (*Library, error) {
	var doc libraryJSON
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "cannot decode FRS library")
	}
	models := make([]*Model, 0, len(doc.Models))
	for i, mj := range doc.Models {
		m, err := mj.toModel()
		if err != nil {
			return nil, errors.Wrapf(err, "model %d", i)
		}
		models = append(models, m)
	}
	return NewLibrary(models...)
}

// ReadModels loads a JSON FRS library from a file.
func ReadModels(path string) (*Library, error) {
	//nolint: gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open FRS library %q", path)
	}
	defer f.Close()
	return DecodeModels(f)
}

func (mj modelJSON) toModel() (*Model, error) {
	if len(mj.VRange) != 2 {
		return nil, errors.Errorf("v_range has %d entries, want 2", len(mj.VRange))
	}
	w, err := polynomial.FromTerms(StateDim+ParamDim, mj.W)
	if err != nil {
		return nil, errors.Wrap(err, "w")
	}
	paramPoly := func(name string, terms []polynomial.Term) (polynomial.Poly, error) {
		p, err := polynomial.FromTerms(ParamDim, terms)
		if err != nil {
			return polynomial.Poly{}, errors.Wrap(err, name)
		}
		return p, nil
	}
	xDes, err := paramPoly("x_des", mj.XDes)
	if err != nil {
		return nil, err
	}
	yDes, err := paramPoly("y_des", mj.YDes)
	if err != nil {
		return nil, err
	}
	wDes, err := paramPoly("w_des", mj.WDes)
	if err != nil {
		return nil, err
	}
	vDes, err := paramPoly("v_des", mj.VDes)
	if err != nil {
		return nil, err
	}
	var offset r3.Vector
	if len(mj.Offset) >= 2 {
		offset = r3.Vector{X: mj.Offset[0], Y: mj.Offset[1]}
	}
	return NewModel(mj.Name, w, [2]float64{mj.VRange[0], mj.VRange[1]},
		mj.DeltaV, mj.TPlan, mj.DistanceScale, offset, xDes, yDes, wDes, vDes)
}
