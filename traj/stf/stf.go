/*
 * stf.go, part of gomelt.
 *
 * Copyright 2024 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package stf

import (
	"bufio"
	"errors"
	"compress/flate"
	"compress/gzip"
	"compress/lzw"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	melt "github.com/rmera/gomelt"
	v3 "github.com/rmera/gomelt/v3"
)

const (
	lzwLitwidth int = 8
	defaultPrec int = 4
	missing         = "NA"
)

//Write!

// StfW writes a bond-vector trajectory.
type StfW struct {
	f         *os.File
	h         io.WriteCloser
	nvecs     int
	filename  string
	writeable bool
	prec      int
}

// Close flushes and closes the file. The object can't be used after this call.
func (S *StfW) Close() error {
	if S == nil || !S.writeable {
		return nil
	}
	S.writeable = false
	err := S.h.Close()
	if err2 := S.f.Close(); err == nil {
		err = err2
	}
	return err
}

// Len returns the number of vectors per frame.
func (S *StfW) Len() int {
	return S.nvecs
}

// WNext writes one frame. Vectors with any NaN component are written as missing.
func (S *StfW) WNext(coord *v3.Matrix) error {
	if !S.writeable {
		return &Error{TrajUnIniWrite, S.filename, []string{"WNext"}, true}
	}
	if coord == nil {
		return &Error{NilCoordinates, S.filename, []string{"WNext"}, true}
	}
	v := coord.NVecs()
	if v != S.nvecs {
		return &Error{fmt.Sprintf("%d vectors given, but %d expected", v, S.nvecs), S.filename, []string{"WNext"}, true}
	}
	var floats [3]float64
	for i := 0; i < v; i++ {
		if coord.HasNaN(i) {
			if _, err := S.h.Write([]byte(missing + "\n")); err != nil {
				return &Error{err.Error(), S.filename, []string{"WNext"}, true}
			}
			continue
		}
		floats[0] = coord.At(i, 0)
		floats[1] = coord.At(i, 1)
		floats[2] = coord.At(i, 2)
		if _, err := S.h.Write([]byte(coordsEncode(floats, S.prec))); err != nil {
			return &Error{err.Error(), S.filename, []string{"WNext"}, true}
		}
	}
	if _, err := S.h.Write([]byte("*\n")); err != nil {
		return &Error{err.Error(), S.filename, []string{"WNext"}, true}
	}
	return nil
}

func anyNewWriter(name string) func(io.Writer) (io.WriteCloser, error) {
	zstdwriter := func(a io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(a, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	}
	switch strings.ToLower(name)[len(name)-1] {
	case 'l':
		return func(a io.Writer) (io.WriteCloser, error) { return lzw.NewWriter(a, lzw.MSB, lzwLitwidth), nil }
	case 'z':
		return func(a io.Writer) (io.WriteCloser, error) { return gzip.NewWriterLevel(a, gzip.BestCompression) }
	case 'r':
		return func(a io.Writer) (io.WriteCloser, error) { return flate.NewWriter(a, flate.BestCompression) }
	default:
		return zstdwriter
	}
}

// NewWriter creates the file name and writes the header, which must contain
// the "dt" key if the file is to be read with ReadBonds. Keys are written sorted.
func NewWriter(name string, nvecs int, header map[string]string) (*StfW, error) {
	if name == "" {
		return nil, &Error{UnableToOpen, name, []string{"NewWriter"}, true}
	}
	S := new(StfW)
	var err error
	S.f, err = os.Create(name)
	if err != nil {
		return nil, &Error{err.Error(), name, []string{"NewWriter"}, true}
	}
	S.h, err = anyNewWriter(name)(S.f)
	if err != nil {
		S.f.Close()
		return nil, &Error{"Can't create compressor " + err.Error(), name, []string{"NewWriter"}, true}
	}
	S.nvecs = nvecs
	S.filename = name
	S.writeable = true
	S.prec = defaultPrec
	if p, ok := header["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err != nil || prec <= 0 {
			S.Close()
			return nil, &Error{fmt.Sprintf("Invalid precision %q", p), name, []string{"NewWriter"}, true}
		}
		S.prec = prec
	}
	keys := make([]string, 0, len(header)+1)
	for k := range header {
		if k != "prec" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	headerstr := fmt.Sprintf("prec=%d\n", S.prec)
	for _, k := range keys {
		headerstr += fmt.Sprintf("%s=%s\n", k, header[k])
	}
	headerstr += fmt.Sprintf("** %d\n", S.nvecs)
	if _, err := S.h.Write([]byte(headerstr)); err != nil {
		S.Close()
		return nil, &Error{err.Error(), name, []string{"NewWriter"}, true}
	}
	return S, nil
}

//Read!

// StfR reads a bond-vector trajectory.
type StfR struct {
	f        *os.File
	dec      io.ReadCloser
	h        *bufio.Reader
	nvecs    int
	filename string
	prec     int
	readable bool
}

// Why couldn't *zstd.Decoder implement io.ReadCloser? :-(
type stdql struct {
	closeql func()
	*zstd.Decoder
}

// Close Closes the object. It can not be used after this call
func (s stdql) Close() error {
	s.closeql()
	return nil
}

func coordsEncode(f [3]float64, prec int) string {
	p := math.Pow(10.0, float64(prec))
	var temp [3]int
	for i, v := range f {
		temp[i] = int(math.RoundToEven(v * p))
	}
	return fmt.Sprintf("%d %d %d\n", temp[0], temp[1], temp[2])
}

func anyNewReader(name string) func(io.Reader) (io.ReadCloser, error) {
	zstdreader := func(a io.Reader) (io.ReadCloser, error) {
		r, err := zstd.NewReader(a)
		if err != nil {
			return nil, err
		}
		return &stdql{r.Close, r}, nil
	}
	switch strings.ToLower(name)[len(name)-1] {
	case 'l':
		return func(a io.Reader) (io.ReadCloser, error) { return lzw.NewReader(a, lzw.MSB, lzwLitwidth), nil }
	case 'z':
		return func(a io.Reader) (io.ReadCloser, error) { return gzip.NewReader(a) }
	case 'r':
		return func(a io.Reader) (io.ReadCloser, error) { return flate.NewReader(a), nil }
	default:
		return zstdreader
	}
}

// New opens a STF trajectory for reading, and returns a pointer
// to the handle, a map with the header and error or nil.
func New(name string) (*StfR, map[string]string, error) {
	S := new(StfR)
	S.nvecs = -1
	S.filename = name
	S.prec = defaultPrec
	var err error
	S.f, err = os.Open(name)
	if err != nil {
		return nil, nil, &Error{err.Error(), name, []string{"New"}, true}
	}
	S.dec, err = anyNewReader(name)(bufio.NewReader(S.f))
	if err != nil {
		S.f.Close()
		return nil, nil, &Error{"Can't read header " + err.Error(), name, []string{"New"}, true}
	}
	S.h = bufio.NewReader(S.dec)
	m := make(map[string]string)
	for {
		str, err := S.h.ReadString('\n')
		if err != nil {
			S.closeAll()
			return nil, nil, &Error{"Can't read header " + err.Error(), name, []string{"New"}, true}
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			nat := strings.Fields(str)
			if len(nat) < 2 {
				S.closeAll()
				return nil, nil, &Error{fmt.Sprintf("Can't read vector number from '%s'", str), name, []string{"New"}, true}
			}
			S.nvecs, err = strconv.Atoi(nat[1])
			if err != nil || S.nvecs <= 0 {
				S.closeAll()
				return nil, nil, &Error{fmt.Sprintf("Can't read vector number from '%s'", nat[1]), name, []string{"New"}, true}
			}
			break
		}
		kv := strings.SplitN(str, "=", 2)
		if len(kv) != 2 {
			S.closeAll()
			return nil, nil, &Error{"Malformed header line: " + str, name, []string{"New"}, true}
		}
		m[kv[0]] = kv[1]
	}
	if p, ok := m["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err != nil || prec <= 0 {
			S.closeAll()
			return nil, nil, &Error{fmt.Sprintf("Invalid precision %q", p), name, []string{"New"}, true}
		}
		S.prec = prec
	}
	S.readable = true
	return S, m, nil
}

// Readable returns true if the handle is readable (if it is possible to call Next on it)
func (S *StfR) Readable() bool {
	return S.readable
}

func coordsDecode(str string, temp *[3]float64, prec int) error {
	p := math.Pow(10.0, float64(prec))
	s := strings.Fields(str)
	if len(s) == 1 && s[0] == missing {
		temp[0], temp[1], temp[2] = math.NaN(), math.NaN(), math.NaN()
		return nil
	}
	if len(s) != 3 {
		return fmt.Errorf("Ill formated vector line in stf: %d fields: %s", len(s), str)
	}
	for i, v := range s {
		f, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("Can't parse component %d (%s). Error: %s", i, v, err.Error())
		}
		temp[i] = float64(f) / p
	}
	return nil
}

// Next puts in the given matrix (c) the vectors for the next frame of the trajectory.
// If c is nil, the frame is read and checked, but discarded. When there are no more
// frames it returns an error that implements melt.LastFrameError.
func (S *StfR) Next(c *v3.Matrix) error {
	if !S.readable {
		return &Error{TrajUnIniRead, S.filename, []string{"Next"}, true}
	}
	var temp [3]float64
	for i := 0; i < S.nvecs; i++ {
		b, err := S.h.ReadString('\n')
		if err != nil {
			if err == io.EOF && i == 0 && b == "" {
				//nothing bad happened here, the trajectory just ended.
				S.Close()
				return newlastFrameError(S.filename, "Next")
			}
			return &Error{ReadError + ": " + err.Error(), S.filename, []string{"Next"}, true}
		}
		err = coordsDecode(strings.TrimSuffix(b, "\n"), &temp, S.prec)
		if err != nil {
			return &Error{err.Error(), S.filename, []string{"Next"}, true}
		}
		if c == nil {
			continue
		}
		for j, v := range temp {
			c.Set(i, j, v)
		}
	}
	s, err := S.h.ReadString('\n')
	if err != nil && !(err == io.EOF && s != "") {
		return &Error{"Can't read the frame termination mark " + err.Error(), S.filename, []string{"Next"}, true}
	}
	if len(s) == 0 || s[0] != '*' {
		return &Error{WrongFormat + ": wrong number of vectors in frame", S.filename, []string{"Next"}, true}
	}
	return nil
}

func (S *StfR) closeAll() {
	if S.dec != nil {
		S.dec.Close()
	}
	S.f.Close()
}

// Close closes the object, and marks it as unreadable
func (S *StfR) Close() {
	if !S.readable {
		return
	}
	S.closeAll()
	S.readable = false
}

// Len returns the number of vectors in each frame of the trajectory.
func (S *StfR) Len() int {
	return S.nvecs
}

// ReadBonds reads the whole trajectory in the file name. The trajectory must have one
// vector per residue, and its header must give the sampling interval (dt, in ns).
func ReadBonds(name string, residues []melt.Residue) (*melt.BondTrajectory, error) {
	S, header, err := New(name)
	if err != nil {
		return nil, meltError(err, name, "ReadBonds")
	}
	defer S.Close()
	dt, err := headerFloat(header, "dt", -1)
	if err != nil || dt <= 0 {
		return nil, melt.NewError(melt.MalformedTimeSeries, "ReadBonds", "%s: the header has no valid sampling interval (dt)", name)
	}
	t0, err := headerFloat(header, "t0", 0)
	if err != nil {
		return nil, melt.NewError(melt.MalformedTimeSeries, "ReadBonds", "%s: invalid start time (t0)", name)
	}
	b, err := melt.ReadTraj(S, residues, t0, dt)
	if err != nil {
		return nil, meltError(err, name, "ReadBonds")
	}
	return b, nil
}

// WriteBonds writes the bond trajectory b to the file name.
func WriteBonds(name string, b *melt.BondTrajectory) error {
	header := map[string]string{
		"dt": melt.FormatNumber(b.Interval),
		"t0": melt.FormatNumber(b.Start),
	}
	W, err := NewWriter(name, len(b.Residues), header)
	if err != nil {
		return errDecorate(err, "WriteBonds")
	}
	for i, f := range b.Frames {
		if err := W.WNext(f); err != nil {
			W.Close()
			return errDecorate(err, fmt.Sprintf("WriteBonds: frame %d", i))
		}
	}
	if err := W.Close(); err != nil {
		return &Error{err.Error(), name, []string{"WriteBonds"}, true}
	}
	return nil
}

// meltError turns a trajectory error into a melt.Error, so it can be classified
// with errors.Is. A file that can't be found is MissingInput, anything else
// MalformedTimeSeries.
func meltError(err error, name, caller string) error {
	var me *melt.Error
	if errors.As(err, &me) {
		return melt.ErrDecorate(err, caller+": "+name)
	}
	kind := melt.MalformedTimeSeries
	if _, serr := os.Stat(name); serr != nil {
		kind = melt.MissingInput
	}
	return melt.NewError(kind, caller, "%s", err.Error())
}

func headerFloat(header map[string]string, key string, def float64) (float64, error) {
	v, ok := header[key]
	if !ok {
		return def, nil
	}
	return strconv.ParseFloat(v, 64)
}

//Errors

// errDecorate is a helper function that decorates the error with the caller's name
// before returning it, if the error supports decoration.
func errDecorate(err error, caller string) error {
	if err2, ok := err.(melt.Decorator); ok {
		err2.Decorate(caller)
	}
	return err
}

// Error is the general structure for STF trajectory errors.
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("stf file %s error: %s", err.filename, err.message)
}

// Decorate Adds new information to the error
func (E *Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

// FileName returns the file to which the failing trajectory was associated
func (err Error) FileName() string { return err.filename }

// Format returns the format of the file (always "stf") associated to the error
func (err Error) Format() string { return "stf" }

// Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

const (
	TrajUnIniRead  = "Traj object uninitialized to read"
	TrajUnIniWrite = "Traj object uninitialized to write"
	ReadError      = "Error reading frame"
	UnableToOpen   = "Unable to open file"
	NilCoordinates = "Given nil coordinates"
	WrongFormat    = "Wrong format in the STF file or frame"
)

// lastFrameError implements melt.LastFrameError
type lastFrameError struct {
	deco     []string
	fileName string
}

// NormalLastFrameTermination does nothing
func (E lastFrameError) NormalLastFrameTermination() {}

func (E lastFrameError) FileName() string { return E.fileName }

func (E lastFrameError) Error() string { return "EOF" }

func (E lastFrameError) Critical() bool { return false }

func (E lastFrameError) Format() string { return "stf" }

func (E *lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) *lastFrameError {
	e := new(lastFrameError)
	e.fileName = filename
	e.deco = []string{caller}
	return e
}
