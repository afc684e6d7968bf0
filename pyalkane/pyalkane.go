package pyalkane

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/fine-structures/alkanes/alkane"
	"github.com/fine-structures/alkanes/libalkane"
	"github.com/fine-structures/alkanes/libalkane/catalog"
	"github.com/go-python/gpython/py"
)

var (
	LIB_VERSION = "v1.2026.1"
)

var (
	pyIsomerStreamType = py.NewType("IsomerStream", "alkane.IsomerStream")
	pyCatalogType      = py.NewType("Catalog", "alkane.Catalog")
	pyWorkspaceType    = py.NewType("Workspace", "collects active session resources and catalogs")
)

// labellerArg returns the labeller named by the optional arg at index i.
func labellerArg(args py.Tuple, i int) (alkane.LabellerKind, error) {
	name := ""
	if len(args) > i {
		str, ok := args[i].(py.String)
		if !ok {
			return "", py.ExceptionNewf(py.TypeError, "expected labeller name (got %v)", args[i].Type().Name)
		}
		name = string(str)
	}
	kind, err := alkane.ParseLabellerKind(name)
	if err != nil {
		return "", py.ExceptionNewf(py.ValueError, "%v: %q", err, name)
	}
	return kind, nil
}

func carbonsArg(args py.Tuple, i int) (int, error) {
	if len(args) <= i {
		return 0, py.ExceptionNewf(py.TypeError, "expected carbon count")
	}
	n, err := py.GetInt(args[i])
	if err != nil {
		return 0, err
	}
	if n < 1 || n > alkane.MaxCarbons {
		return 0, py.ExceptionNewf(py.ValueError, "carbon count %d out of range", n)
	}
	return int(n), nil
}

func codeArg(args py.Tuple, i int) (alkane.Code, error) {
	if len(args) <= i {
		return nil, py.ExceptionNewf(py.TypeError, "expected code string")
	}
	str, ok := args[i].(py.String)
	if !ok {
		return nil, py.ExceptionNewf(py.TypeError, "expected code string (got %v)", args[i].Type().Name)
	}
	X, err := alkane.ParseCode(string(str))
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return X, nil
}

func enumerate(args py.Tuple) ([]*alkane.IsomerSet, *alkane.Summary, error) {
	maxCarbons, err := carbonsArg(args, 0)
	if err != nil {
		return nil, nil, err
	}
	kind, err := labellerArg(args, 1)
	if err != nil {
		return nil, nil, err
	}
	sum, levels, err := libalkane.Enumerate(context.Background(), libalkane.EnumOpts{
		MaxCarbons: maxCarbons,
		Labeller:   kind,
	})
	if err != nil {
		return nil, nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return levels, sum, nil
}

// Arg 1 (int): max carbon count
// Arg 2 (str, optional): labeller
func py_Enumerate(module py.Object, args py.Tuple) (py.Object, error) {
	_, sum, err := enumerate(args)
	if err != nil {
		return nil, err
	}
	counts := sum.Counts()
	out := make(py.Tuple, len(counts))
	for i, n := range counts {
		out[i] = py.Int(n)
	}
	return out, nil
}

// Arg 1 (int): carbon count
// Arg 2 (str, optional): labeller
func py_Isomers(module py.Object, args py.Tuple) (py.Object, error) {
	levels, _, err := enumerate(args)
	if err != nil {
		return nil, err
	}
	set := levels[len(levels)-1]
	out := make(py.Tuple, set.Len())
	for i := range out {
		out[i] = py.String(set.Code(i).String())
	}
	return out, nil
}

// Arg 1 (str): code
// Arg 2 (str, optional): labeller
func py_Signature(module py.Object, args py.Tuple) (py.Object, error) {
	X, err := codeArg(args, 0)
	if err != nil {
		return nil, err
	}
	kind, err := labellerArg(args, 1)
	if err != nil {
		return nil, err
	}
	sig := libalkane.MustNewLabeller(kind).Signature(X, nil)
	out := make(py.Tuple, len(sig))
	for i, v := range sig {
		out[i] = py.Int(v)
	}
	return out, nil
}

func py_Skeleton(module py.Object, args py.Tuple) (py.Object, error) {
	X, err := codeArg(args, 0)
	if err != nil {
		return nil, err
	}
	return py.String(libalkane.FormatSkeleton(X)), nil
}

func py_Parse(module py.Object, args py.Tuple) (py.Object, error) {
	var expr string
	if err := py.LoadTuple(args, []interface{}{&expr}); err != nil {
		return nil, err
	}
	X, err := libalkane.EncodeSkeleton(expr)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return py.String(X.String()), nil
}

// Arg 1 (int): max carbon count
// Arg 2 (str, optional): labeller
func py_EnumIsomers(module py.Object, args py.Tuple) (py.Object, error) {
	maxCarbons, err := carbonsArg(args, 0)
	if err != nil {
		return nil, err
	}
	kind, err := labellerArg(args, 1)
	if err != nil {
		return nil, err
	}
	stream := libalkane.EnumIsomers(context.Background(), libalkane.EnumOpts{
		MaxCarbons: maxCarbons,
		Labeller:   kind,
	})
	return wrapIsomerStream(stream), nil
}

// Args: code strings
func py_StreamCodes(module py.Object, args py.Tuple) (py.Object, error) {
	codes := make([]alkane.Code, len(args))
	for i := range args {
		X, err := codeArg(args, i)
		if err != nil {
			return nil, err
		}
		codes[i] = X
	}
	return wrapIsomerStream(alkane.StreamCodes(codes...)), nil
}

const (
	READ_ONLY = 0x01
)

const (
	kWorkspaceAttr = "_Workspace"
)

type Workspace struct {
	CatalogCtx alkane.CatalogContext
}

func (ws *Workspace) Close() {
	ws.CatalogCtx.Close()
	<-ws.CatalogCtx.Done()
}

func (ws *Workspace) Type() *py.Type {
	return pyWorkspaceType
}

func py_GetWorkspace(module py.Object, args py.Tuple) (py.Object, error) {
	wsObj, _ := py.GetAttrString(module, kWorkspaceAttr)
	if wsObj == nil {
		ws := &Workspace{
			CatalogCtx: alkane.NewCatalogContext(),
		}
		wsObj = ws
		py.SetAttrString(module, kWorkspaceAttr, wsObj)
	}
	return wsObj, nil
}

func py_Workspace_CatalogExists(self py.Object, args py.Tuple) (py.Object, error) {
	_ = self.(*Workspace)

	var pathname string
	err := py.LoadTuple(args, []interface{}{&pathname})
	if err != nil {
		return nil, err
	}
	_, err = os.Stat(pathname)
	if os.IsNotExist(err) {
		return py.False, nil
	}
	return py.True, nil
}

// Arg 1 (str): db path ("" for in-memory)
// Arg 2 (int): flags
// Arg 3 (str): labeller ("" accepts the catalog's)
func py_Workspace_OpenCatalog(self py.Object, args py.Tuple) (py.Object, error) {
	ws := self.(*Workspace)

	var pathname, labeller string
	var flags int32
	err := py.LoadTuple(args, []interface{}{&pathname, &flags, &labeller})
	if err != nil {
		return nil, err
	}

	opts := alkane.CatalogOpts{
		ReadOnly:   (flags & READ_ONLY) != 0,
		DbPathName: pathname,
		Labeller:   alkane.LabellerKind(labeller),
	}

	cat, err := catalog.OpenCatalog(ws.CatalogCtx, opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}

	return pyCatalog{cat}, nil
}

type pyCatalog struct {
	alkane.Catalog
}

func (cat pyCatalog) Type() *py.Type {
	return pyCatalogType
}

func py_Catalog_Close(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	if cat.Catalog != nil {
		cat.Close()
	}
	return py.None, nil
}

func py_Catalog_MaxCarbons(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	return py.Int(cat.MaxCarbons()), nil
}

func py_Catalog_NumIsomers(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	C, err := carbonsArg(args, 0)
	if err != nil {
		return nil, err
	}
	return py.Int(cat.NumIsomers(C)), nil
}

func py_Catalog_Select(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	C, err := carbonsArg(args, 0)
	if err != nil {
		return nil, err
	}
	return wrapIsomerStream(alkane.SelectFromCatalog(cat, C)), nil
}

// Arg 1 (int): max carbon count
func py_Catalog_Enumerate(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	if cat.IsReadOnly() {
		return nil, py.ExceptionNewf(py.PermissionError, "catalog is in read-only mode")
	}
	maxCarbons, err := carbonsArg(args, 0)
	if err != nil {
		return nil, err
	}
	sum, _, err := libalkane.Enumerate(context.Background(), libalkane.EnumOpts{
		MaxCarbons: maxCarbons,
		Catalog:    cat,
	})
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.Int(sum.Total()), nil
}

type isomerStream struct {
	*alkane.IsomerStream
}

func (stream isomerStream) Type() *py.Type {
	return pyIsomerStreamType
}

func wrapIsomerStream(stream *alkane.IsomerStream) py.Object {
	return isomerStream{stream}
}

func py_IsomerStream_Go(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(isomerStream)
	count := stream.PullAll()
	return py.Int(count), nil
}

func py_IsomerStream_Codes(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(isomerStream)
	codes := stream.Collect()
	out := make(py.Tuple, len(codes))
	for i, X := range codes {
		out[i] = py.String(X.String())
	}
	return out, nil
}

func py_IsomerStream_DropDupes(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(isomerStream)
	kind, err := labellerArg(args, 0)
	if err != nil {
		return nil, err
	}
	dd, err := libalkane.NewDeduplicator(libalkane.DedupeOpts{Labeller: kind})
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return wrapIsomerStream(stream.AddTo(dd)), nil
}

// Arg 1 (int): carbon count
func py_IsomerStream_Select(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(isomerStream)
	C, err := carbonsArg(args, 0)
	if err != nil {
		return nil, err
	}
	next := stream.Select(func(X alkane.Code) bool {
		return X.CarbonCount() == C
	})
	return wrapIsomerStream(next), nil
}

type echoToWriter struct {
	stdout *os.File
	to     io.WriteCloser
}

func (echo *echoToWriter) Write(buf []byte) (int, error) {
	if echo.to == nil {
		return echo.stdout.Write(buf)
	}
	return echo.to.Write(buf)
}

func (echo *echoToWriter) Close() error {
	if echo.to != nil {
		return echo.to.Close()
	}
	return nil
}

var gOutCount = int32(0)

// Arg 1 (str, optional): label
// kwargs: label, skeleton (bool), signature (labeller name), file (pathname)
func py_IsomerStream_Print(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	stream := self.(isomerStream)
	var pathname, labeller string

	opts := alkane.DefaultPrintOpts

	py.LoadTuple(args, []interface{}{&opts.Label})
	if opts.Label == "" {
		py.LoadAttr(kwargs, "label", &opts.Label)
	}

	count := atomic.AddInt32(&gOutCount, 1)
	if opts.Label == "" {
		opts.Label = fmt.Sprintf("out[%d]", count)
	}

	py.LoadAttr(kwargs, "skeleton", &opts.Skeleton)
	py.LoadAttr(kwargs, "signature", &labeller)
	py.LoadAttr(kwargs, "file", &pathname)

	if labeller = strings.TrimSpace(labeller); labeller != "" {
		kind, err := alkane.ParseLabellerKind(labeller)
		if err != nil {
			return nil, py.ExceptionNewf(py.ValueError, "%v: %q", err, labeller)
		}
		opts.Labeller = libalkane.MustNewLabeller(kind)
	}

	writer := &echoToWriter{
		stdout: os.Stdout,
	}
	if len(pathname) > 0 {
		os.MkdirAll(filepath.Dir(pathname), 0700)

		file, err := os.OpenFile(pathname, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0600)
		if err != nil {
			return nil, py.ExceptionNewf(py.FileNotFoundError, "%v", err)
		}
		writer.to = file
	}

	next := stream.Print(writer, opts)
	return wrapIsomerStream(next), nil
}

func init() {

	/////////////////////////////////
	// Catalog
	{
		pyCatalogType.Dict["Select"] = py.MustNewMethod("Select", py_Catalog_Select, 0, "streams the isomers stored for a carbon count")
		pyCatalogType.Dict["NumIsomers"] = py.MustNewMethod("NumIsomers", py_Catalog_NumIsomers, 0, "")
		pyCatalogType.Dict["MaxCarbons"] = py.MustNewMethod("MaxCarbons", py_Catalog_MaxCarbons, 0, "")
		pyCatalogType.Dict["Enumerate"] = py.MustNewMethod("Enumerate", py_Catalog_Enumerate, 0, "enumerates into this catalog, resuming from its stored levels")
		pyCatalogType.Dict["Close"] = py.MustNewMethod("Close", py_Catalog_Close, 0, "")
	}

	/////////////////////////////////
	// Workspace
	{
		pyWorkspaceType.Dict["OpenCatalog"] = py.MustNewMethod("OpenCatalog", py_Workspace_OpenCatalog, 0, "")
		pyWorkspaceType.Dict["CatalogExists"] = py.MustNewMethod("CatalogExists", py_Workspace_CatalogExists, 0, "")
	}

	/////////////////////////////////
	// IsomerStream
	{
		pyIsomerStreamType.Dict["Go"] = py.MustNewMethod("Go", py_IsomerStream_Go, 0, "counts the number of isomers output from the IsomerStream")
		pyIsomerStreamType.Dict["Codes"] = py.MustNewMethod("Codes", py_IsomerStream_Codes, 0, "drains the IsomerStream into a tuple of code strings")
		pyIsomerStreamType.Dict["Print"] = py.MustNewMethod("Print", py_IsomerStream_Print, 0, "prints each isomer from the IsomerStream")
		pyIsomerStreamType.Dict["DropDupes"] = py.MustNewMethod("DropDupes", py_IsomerStream_DropDupes, 0, "")
		pyIsomerStreamType.Dict["Select"] = py.MustNewMethod("Select", py_IsomerStream_Select, 0, "")
	}

	{
		methods := []*py.Method{
			py.MustNewMethod("Enumerate", py_Enumerate, 0, "returns the isomer count of each carbon count up to the given max"),
			py.MustNewMethod("Isomers", py_Isomers, 0, "returns the codes of the isomers with the given carbon count"),
			py.MustNewMethod("Signature", py_Signature, 0, ""),
			py.MustNewMethod("Skeleton", py_Skeleton, 0, ""),
			py.MustNewMethod("Parse", py_Parse, 0, "encodes a skeleton expression such as 'CC(C)C'"),
			py.MustNewMethod("EnumIsomers", py_EnumIsomers, 0, ""),
			py.MustNewMethod("StreamCodes", py_StreamCodes, 0, ""),
			py.MustNewMethod("GetWorkspace", py_GetWorkspace, 0, ""),
		}

		globals := py.StringDict{
			"LIB_VERSION": py.String(LIB_VERSION),
			"MAX_CARBONS": py.Int(alkane.MaxCarbons),
			"READ_ONLY":   py.Int(READ_ONLY),
		}

		py.RegisterModule(&py.ModuleImpl{
			Info: py.ModuleInfo{
				Name: "_alkanes",
				Doc:  "alkane isomer enumeration gpython module",
			},
			Methods: methods,
			Globals: globals,
			OnContextClosed: func(m *py.Module) {
				wsObj, _ := py.GetAttrString(m, kWorkspaceAttr)
				if wsObj != nil {
					wsObj.(*Workspace).Close()
				}
			},
		})
	}
}
