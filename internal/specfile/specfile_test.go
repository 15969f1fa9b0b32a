package specfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/docsync/internal/model"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"int", "int"},
		{"int,  string", "int,string"},
		{"int , string", "int,string"},
		{"vector<int>", "vector< int >"},
		{"vector<int>&", "vector< int > &"},
		{"vector< int > &", "vector< int > &"},
		{"word_type const&", "word_type const &"},
		{"word_type&&", "word_type&&"},
		{"Presentation<word_type>&&", "Presentation< word_type >&&"},
		{"std::map<int,std::vector<int>>", "std::map< int,std::vector< int > >"},
		{"size_t\tn,\n  bool", "size_t n,bool"},
		{"<>", "< >"},
		{"a<,b>", "a<,b >"},
		{"&x", "& x"},
		{"T & & U", "T & & U"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got := Normalize(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, Normalize(got), "normalize must be idempotent")
		})
	}
}

func TestNormalizeIdempotentOddInputs(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"<<>>", "&&&", "& &", ",<,>,", " < & > ", "a&b&&c&", "x<y&>z", ">a<", "&,&", "<&>",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestSplitDescriptor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, member, params string
	}{
		{"rules()", "rules", ""},
		{"contains_rule(word_type const&, word_type const&) const", "contains_rule", "word_type const&, word_type const&"},
		{"alphabet", "alphabet", ""},
		{"f(std::function<void(int)>)", "f", "std::function<void(int)>"},
		{"g(int", "g", "int"},
		{"operator()(size_t) const", "operator()", "size_t"},
		{"operator ( )(word_type const&)", "operator()", "word_type const&"},
		{"operator()", "operator()", ""},
		{"operator==(Foo const&) const", "operator==", "Foo const&"},
	}
	for _, tc := range cases {
		member, params := splitDescriptor(tc.in)
		assert.Equal(t, tc.member, member, tc.in)
		assert.Equal(t, tc.params, params, tc.in)
	}
}

func TestNewDispatch(t *testing.T) {
	t.Parallel()

	src, err := New("a/presentation.yml", nil)
	require.NoError(t, err)
	assert.Equal(t, KindYAML, src.Kind())
	_, ok := src.(*YAMLSource)
	assert.True(t, ok)

	src, err = New("b.YAML", nil)
	require.NoError(t, err)
	assert.Equal(t, KindYAML, src.Kind())

	src, err = New("docs/index.rst", nil)
	require.NoError(t, err)
	assert.Equal(t, KindRST, src.Kind())
	assert.Equal(t, "docs/index.rst", src.Path())

	for _, bad := range []string{"notes.txt", "Makefile", "x.json"} {
		_, err := New(bad, nil)
		require.Error(t, err, bad)
		assert.True(t, errors.Is(err, ErrInvalidArgument), bad)
		var iae *InvalidArgumentError
		require.True(t, errors.As(err, &iae))
		assert.Equal(t, bad, iae.Path)
	}
}

const sampleYAML = `Presentation:
  - Member types:
    - word_type
  - Constructors:
    - Presentation()
  - Member functions:
    - alphabet() const
    - alphabet(size_type)
    - contains_rule(word_type const&,  word_type const&)
    - add_rule(word_type&&, word_type&&)
    - {nested: mapping}
    - 42
  - Iterators:
    - cbegin_rules() const
    - cend_rules() const
Forest: null
Empty:
functions:
  - Free functions:
    - add_rule(Presentation<word_type>&, word_type const&)
`

func TestYAMLEntries(t *testing.T) {
	t.Parallel()

	src, err := New("presentation.yml", []byte(sampleYAML))
	require.NoError(t, err)
	entries, err := src.Entries()
	require.NoError(t, err)

	got := make([]string, len(entries))
	for i, e := range entries {
		got[i] = e.String()
	}
	assert.Equal(t, []string{
		"Presentation::alphabet()",
		"Presentation::alphabet(size_type)",
		"Presentation::contains_rule(word_type const &,word_type const &)",
		"Presentation::add_rule(word_type&&,word_type&&)",
		"Presentation::cbegin_rules()",
		"Presentation::cend_rules()",
		"add_rule(Presentation< word_type > &,word_type const &)",
	}, got)

	assert.Equal(t, model.Location{File: "presentation.yml", Line: 7}, entries[0].Source)
	assert.Equal(t, "", entries[6].Class)
}

func TestYAMLErrors(t *testing.T) {
	t.Parallel()

	_, err := (&YAMLSource{path: "x.yml", data: []byte("- a\n- b\n")}).Entries()
	require.Error(t, err)

	_, err = (&YAMLSource{path: "x.yml", data: []byte("a: [\n")}).Entries()
	require.Error(t, err)

	entries, err := (&YAMLSource{path: "x.yml"}).Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

const sampleRST = "Presentation\n" +
	"============\n" +
	"\n" +
	"See :cpp:any:`libsemigroups::Presentation::rules` and\n" +
	":cpp:any:`Presentation<word_type>::contains_rule(word_type const&, word_type const&)`.\n" +
	"\n" +
	".. cpp:namespace:: libsemigroups::presentation\n" +
	"\n" +
	"Helpers: :cpp:any:`add_rule(Presentation<Word>&, Word const&)`, :cpp:any:`the length <length>`.\n" +
	"\n" +
	".. cpp:namespace:: libsemigroups\n" +
	":cpp:any:`~Forest::parent`\n"

func TestRSTEntries(t *testing.T) {
	t.Parallel()

	src, err := New("presentation.rst", []byte(sampleRST))
	require.NoError(t, err)
	entries, err := src.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 5)

	assert.Equal(t, model.SpecEntry{
		Class: "Presentation", Member: "rules",
		Source: model.Location{File: "presentation.rst", Line: 4},
	}, entries[0])
	assert.Equal(t, "Presentation<word_type>", entries[1].Class)
	assert.Equal(t, "contains_rule", entries[1].Member)
	assert.Equal(t, "word_type const &,word_type const &", entries[1].Params)
	assert.Equal(t, 5, entries[1].Source.Line)

	assert.Equal(t, "presentation", entries[2].Class)
	assert.Equal(t, "add_rule", entries[2].Member)
	assert.Equal(t, "Presentation< Word > &,Word const &", entries[2].Params)

	assert.Equal(t, "presentation::length", entries[3].Qualified())
	assert.Equal(t, "Forest::parent", entries[4].Qualified())
}

func TestSplitQualified(t *testing.T) {
	t.Parallel()

	scope, member := splitQualified("Presentation<std::string>::rules")
	assert.Equal(t, "Presentation<std::string>", scope)
	assert.Equal(t, "rules", member)

	scope, member = splitQualified("a::b::c")
	assert.Equal(t, "a::b", scope)
	assert.Equal(t, "c", member)

	scope, member = splitQualified("free")
	assert.Equal(t, "", scope)
	assert.Equal(t, "free", member)
}

func TestOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "forest.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Forest:\n  - Member functions:\n    - parent(size_t)\n"), 0o644))

	src, err := Open(path)
	require.NoError(t, err)
	entries, err := src.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Forest::parent(size_t)", entries[0].String())

	_, err = Open(filepath.Join(dir, "missing.yml"))
	require.Error(t, err)
}
