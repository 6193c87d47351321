// cmd/proxygen/main.go
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/printer"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"
)

// This binary is a code-generation tool.
//
// Given an interface declared in a package, it generates the forwarding
// proxy type for that contract plus an init() that registers it with the
// lazyproxy default synthesizer. The generated file lives in the declaring
// package, so restricted-visibility contracts (unexported interfaces or
// unexported methods) are supported without reflection tricks.
//
// Key behaviors:
//   - Parses the whole package directory, skipping _test and .gen files
//   - Resolves same-package embedded interfaces recursively
//   - Rejects cross-package embedding and generic interfaces (fatal, at
//     generation time — unsupported member shapes are never deferred)
//   - Reuses the imports of every file declaring a flattened interface,
//     keeping only those the signatures actually reference
//   - Contracts with unexported methods get a trust grant for their own
//     declaring package in init(), before the forwarder registers
//   - Methods with a trailing error return propagate construction failures
//     through named zero returns; others use MustObtain
//   - Writes output atomically (temp file + rename) via go/format

const lazyproxyImport = "github.com/admelck/lazy-proxy-unity/framework/lazyproxy"

// method is one member of the contract, rendered for the template.
type method struct {
	Name       string
	Params     string // "a0 int, a1 ...string"
	Args       string // "a0, a1..."
	Results    string // "(r0 string, r1 error)" or ""
	ErrResult  string // name of the trailing error result, "" if none
	HasResults bool
}

// importSpec models one import of the generated file.
type importSpec struct {
	Alias string
	Path  string
}

// templateData is the input passed to the Go template.
type templateData struct {
	Package    string
	Contract   string
	ProxyType  string
	Imports    []importSpec
	Methods    []method
	Restricted bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes the generator logic and returns an exit code.
// It exists separately from main to allow unit testing without os.Exit.
func run(args []string, stderr io.Writer) int {
	flags := flag.NewFlagSet("proxygen", flag.ContinueOnError)
	flags.SetOutput(stderr)

	ifaceName := flags.String("type", "", "interface name to generate a forwarder for")
	sourceDir := flags.String("source", ".", "directory of the package declaring the interface")
	outPath := flags.String("out", "", "output file (default <type>_lazy.gen.go in -source)")

	if err := flags.Parse(args); err != nil {
		return 2
	}
	if strings.TrimSpace(*ifaceName) == "" {
		_, _ = fmt.Fprintln(stderr, "usage: proxygen -type <Interface> [-source <dir>] [-out <file.gen.go>]")
		return 2
	}

	out := *outPath
	if out == "" {
		out = filepath.Join(*sourceDir, strings.ToLower(*ifaceName)+"_lazy.gen.go")
	}

	src, err := Generate(*sourceDir, *ifaceName)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "proxygen: %v\n", err)
		return 1
	}

	if err := writeAtomic(out, src); err != nil {
		_, _ = fmt.Fprintf(stderr, "proxygen: %v\n", err)
		return 1
	}
	return 0
}

// Generate parses the package in dir and renders the forwarder source for
// the named interface.
func Generate(dir, ifaceName string) ([]byte, error) {
	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, dir, func(fi os.FileInfo) bool {
		name := fi.Name()
		return !strings.HasSuffix(name, "_test.go") && !strings.HasSuffix(name, ".gen.go")
	}, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", dir, err)
	}

	var pkg *ast.Package
	for _, p := range pkgs {
		if !strings.HasSuffix(p.Name, "_test") {
			pkg = p
			break
		}
	}
	if pkg == nil {
		return nil, fmt.Errorf("no buildable package in %s", dir)
	}

	spec, file := findInterface(pkg, ifaceName)
	if spec == nil {
		return nil, fmt.Errorf("interface %s not found in package %s", ifaceName, pkg.Name)
	}
	if spec.TypeParams != nil && len(spec.TypeParams.List) > 0 {
		return nil, fmt.Errorf("interface %s is generic; generic contracts are not supported", ifaceName)
	}

	iface := spec.Type.(*ast.InterfaceType)
	methods, files, err := collectMethods(fset, pkg, iface, file)
	if err != nil {
		return nil, fmt.Errorf("interface %s: %w", ifaceName, err)
	}

	restricted := false
	for _, m := range methods {
		if !ast.IsExported(m.Name) {
			restricted = true
			break
		}
	}

	data := templateData{
		Package:    pkg.Name,
		Contract:   ifaceName,
		ProxyType:  proxyTypeName(ifaceName),
		Imports:    usedImports(files, methods, restricted),
		Methods:    methods,
		Restricted: restricted,
	}

	var buf bytes.Buffer
	if err := outputTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		// Template bug or exotic signature; include the raw output to make
		// the failure diagnosable.
		return nil, fmt.Errorf("gofmt generated code: %w\n%s", err, buf.String())
	}
	return formatted, nil
}

// findInterface locates the TypeSpec for an interface and the file declaring it.
func findInterface(pkg *ast.Package, name string) (*ast.TypeSpec, *ast.File) {
	for _, file := range pkg.Files {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, s := range gd.Specs {
				ts, ok := s.(*ast.TypeSpec)
				if !ok || ts.Name.Name != name {
					continue
				}
				if _, ok := ts.Type.(*ast.InterfaceType); ok {
					return ts, file
				}
			}
		}
	}
	return nil, nil
}

// collectMethods flattens an interface (following same-package embedding)
// into renderable method descriptors. It also returns every file declaring a
// flattened interface, so import resolution covers embedded signatures too.
func collectMethods(fset *token.FileSet, pkg *ast.Package, iface *ast.InterfaceType, declFile *ast.File) ([]method, []*ast.File, error) {
	var out []method
	seen := map[string]bool{}
	files := []*ast.File{declFile}
	inFiles := map[*ast.File]bool{declFile: true}

	var walk func(it *ast.InterfaceType) error
	walk = func(it *ast.InterfaceType) error {
		for _, field := range it.Methods.List {
			if len(field.Names) == 0 {
				// Embedded interface.
				ident, ok := field.Type.(*ast.Ident)
				if !ok {
					return fmt.Errorf("embedded contract %s is outside the package; move the forwarder generation into its declaring package", exprString(fset, field.Type))
				}
				embedded, embeddedFile := findInterface(pkg, ident.Name)
				if embedded == nil {
					return fmt.Errorf("embedded interface %s not found in package", ident.Name)
				}
				if !inFiles[embeddedFile] {
					inFiles[embeddedFile] = true
					files = append(files, embeddedFile)
				}
				if err := walk(embedded.Type.(*ast.InterfaceType)); err != nil {
					return err
				}
				continue
			}

			ft, ok := field.Type.(*ast.FuncType)
			if !ok {
				continue
			}
			for _, nameIdent := range field.Names {
				if seen[nameIdent.Name] {
					continue
				}
				seen[nameIdent.Name] = true
				m, err := renderMethod(fset, nameIdent.Name, ft)
				if err != nil {
					return err
				}
				out = append(out, m)
			}
		}
		return nil
	}

	if err := walk(iface); err != nil {
		return nil, nil, err
	}
	return out, files, nil
}

// renderMethod builds the template view of one method.
func renderMethod(fset *token.FileSet, name string, ft *ast.FuncType) (method, error) {
	var params, args []string
	if ft.Params != nil {
		i := 0
		for _, p := range ft.Params.List {
			// Unnamed params still need one generated name each; a single
			// type entry may declare several names.
			n := len(p.Names)
			if n == 0 {
				n = 1
			}
			for k := 0; k < n; k++ {
				argName := fmt.Sprintf("a%d", i)
				i++
				typeStr := exprString(fset, p.Type)
				params = append(params, argName+" "+typeStr)
				if _, variadic := p.Type.(*ast.Ellipsis); variadic {
					args = append(args, argName+"...")
				} else {
					args = append(args, argName)
				}
			}
		}
	}

	var results []string
	errResult := ""
	if ft.Results != nil {
		i := 0
		total := 0
		for _, r := range ft.Results.List {
			n := len(r.Names)
			if n == 0 {
				n = 1
			}
			total += n
		}
		for _, r := range ft.Results.List {
			n := len(r.Names)
			if n == 0 {
				n = 1
			}
			for k := 0; k < n; k++ {
				resName := fmt.Sprintf("r%d", i)
				typeStr := exprString(fset, r.Type)
				if i == total-1 && typeStr == "error" {
					errResult = resName
				}
				results = append(results, resName+" "+typeStr)
				i++
			}
		}
	}

	resultsStr := ""
	if len(results) > 0 {
		resultsStr = "(" + strings.Join(results, ", ") + ")"
	}

	return method{
		Name:       name,
		Params:     strings.Join(params, ", "),
		Args:       strings.Join(args, ", "),
		Results:    resultsStr,
		ErrResult:  errResult,
		HasResults: len(results) > 0,
	}, nil
}

// exprString renders an AST expression back to source.
func exprString(fset *token.FileSet, e ast.Expr) string {
	var buf bytes.Buffer
	_ = printer.Fprint(&buf, fset, e)
	return buf.String()
}

// usedImports returns the imports of the files declaring the flattened
// interfaces that the generated signatures actually reference, plus the
// lazyproxy import itself (and reflect for the restricted-contract grant).
func usedImports(files []*ast.File, methods []method, restricted bool) []importSpec {
	qualifiers := map[string]bool{}
	for _, m := range methods {
		for _, tok := range strings.FieldsFunc(m.Params+" "+m.Results, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_'
		}) {
			if dot := strings.IndexByte(tok, '.'); dot > 0 {
				qualifiers[tok[:dot]] = true
			}
		}
	}

	imports := []importSpec{{Alias: "lazyproxy", Path: lazyproxyImport}}
	taken := map[string]bool{lazyproxyImport: true}
	if restricted {
		imports = append(imports, importSpec{Path: "reflect"})
		taken["reflect"] = true
	}
	for _, file := range files {
		for _, imp := range file.Imports {
			path, _ := strconv.Unquote(imp.Path.Value)
			if taken[path] {
				continue
			}
			name := filepath.Base(path)
			if imp.Name != nil {
				name = imp.Name.Name
			}
			if qualifiers[name] {
				alias := ""
				if imp.Name != nil {
					alias = imp.Name.Name
				}
				imports = append(imports, importSpec{Alias: alias, Path: path})
				taken[path] = true
			}
		}
	}
	return imports
}

// proxyTypeName derives the unexported forwarder type name.
func proxyTypeName(iface string) string {
	r, size := utf8.DecodeRuneInString(iface)
	return string(unicode.ToLower(r)) + iface[size:] + "LazyProxy"
}

// writeAtomic writes src to path via a temp file + rename, so a failed run
// never leaves a truncated .gen.go behind.
func writeAtomic(path string, src []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".proxygen-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(src); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

var outputTemplate = template.Must(template.New("proxy").Parse(`// Code generated by proxygen; DO NOT EDIT.

package {{.Package}}

import (
{{- range .Imports}}
	{{.Alias}} {{printf "%q" .Path}}
{{- end}}
)

// {{.ProxyType}} implements {{.Contract}} by forwarding every call to a
// lazily constructed implementation.
type {{.ProxyType}} struct {
	deferred *lazyproxy.Deferred[{{.Contract}}]
}

func init() {
{{- if .Restricted}}
	// {{.Contract}} has unexported members; this file lives in the declaring
	// package, so grant that package trust before registering.
	lazyproxy.Default().Inspector().Trust(reflect.TypeFor[{{.Contract}}]().PkgPath())
{{- end}}
	lazyproxy.MustRegisterForwarder(lazyproxy.Default(), func(d *lazyproxy.Deferred[{{.Contract}}]) {{.Contract}} {
		return &{{$.ProxyType}}{deferred: d}
	})
}
{{range .Methods}}
func (p *{{$.ProxyType}}) {{.Name}}({{.Params}}) {{.Results}} {
{{- if .ErrResult}}
	target, err := p.deferred.Obtain()
	if err != nil {
		{{.ErrResult}} = err
		return
	}
	return target.{{.Name}}({{.Args}})
{{- else if .HasResults}}
	return p.deferred.MustObtain().{{.Name}}({{.Args}})
{{- else}}
	p.deferred.MustObtain().{{.Name}}({{.Args}})
{{- end}}
}
{{end}}`))
