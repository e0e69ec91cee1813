package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// sourceRoots are the trees whose Go code is counted.
var sourceRoots = []string{"cmd", "internal", "pkg"}

// Stats prints one JSON record: Go lines per package (production and tests),
// SQL schema lines, and words in package doc comments and project documents.
func Stats() error {
	record := map[string]any{}
	perPkg := map[string]int{}
	var prodLines, testLines, sqlLines int

	for _, root := range sourceRoots {
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			switch filepath.Ext(path) {
			case ".go":
				n, err := countLines(path)
				if err != nil {
					return nil
				}
				if strings.HasSuffix(path, "_test.go") {
					testLines += n
				} else {
					prodLines += n
					perPkg[filepath.Dir(path)] += n
				}
			case ".sql":
				n, err := countLines(path)
				if err == nil {
					sqlLines += n
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	pkgDocWords, err := countPackageDocWords(perPkg)
	if err != nil {
		return err
	}
	docWords := 0
	for _, name := range []string{"README.md", "DESIGN.md", "SPEC_FULL.md"} {
		if n, err := countWordsInFile(name); err == nil {
			docWords += n
		}
	}

	pkgs := make([]string, 0, len(perPkg))
	for pkg := range perPkg {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)
	packages := make([]map[string]any, 0, len(pkgs))
	for _, pkg := range pkgs {
		packages = append(packages, map[string]any{"package": pkg, "go_loc": perPkg[pkg]})
	}

	record["go_loc_prod"] = prodLines
	record["go_loc_test"] = testLines
	record["sql_loc"] = sqlLines
	record["pkg_doc_wc"] = pkgDocWords
	record["doc_wc"] = docWords
	record["packages"] = packages

	line, err := json.Marshal(record)
	if err != nil {
		return err
	}
	fmt.Println(string(line))
	return nil
}

// countPackageDocWords sums the words of the package doc comment of each
// directory in dirs.
func countPackageDocWords(dirs map[string]int) (int, error) {
	total := 0
	fset := token.NewFileSet()
	for dir := range dirs {
		matches, err := filepath.Glob(filepath.Join(dir, "*.go"))
		if err != nil {
			return 0, err
		}
		for _, path := range matches {
			if strings.HasSuffix(path, "_test.go") {
				continue
			}
			f, err := parser.ParseFile(fset, path, nil, parser.PackageClauseOnly|parser.ParseComments)
			if err != nil || f.Doc == nil {
				continue
			}
			total += len(strings.Fields(f.Doc.Text()))
		}
	}
	return total, nil
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}

func countWordsInFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return len(strings.Fields(string(data))), nil
}
