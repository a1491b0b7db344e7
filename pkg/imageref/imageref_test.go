package imageref

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want Kind
	}{
		{"empty is absent", "", KindAbsent},
		{"plain identifier", "abc123xyz", KindContentID},
		{"folder identifier", "BlogApp/images/k3j2h1", KindContentID},
		{"identifier case preserved", "AbC123", KindContentID},
		{"space", "my photo.jpg", KindLegacy},
		{"open paren", "photo(1).jpg", KindLegacy},
		{"close paren", "photo1).jpg", KindLegacy},
		{"image marker", "Image:cat.png", KindLegacy},
		{"image marker lower case", "image:cat.png", KindLegacy},
		{"uploaded marker upper case", "UPLOADED:cat.png", KindLegacy},
		{"image-uploaded prefix", "image-uploaded-1700000000.png", KindLegacy},
		{"image-uploaded mixed case", "Image-Uploaded-1700000000.png", KindLegacy},
		{"uploaded- alone is not a marker", "uploaded-cat.png", KindContentID},
		{"whitespace only", " ", KindLegacy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.ref))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "none", KindAbsent.String())
	assert.Equal(t, "modern", KindContentID.String())
	assert.Equal(t, "legacy", KindLegacy.String())
}

func TestCleanLabel(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"prefix and parenthetical", "Image: My Photo (2023).jpg", "My Photo.jpg"},
		{"uploaded prefix", "uploaded: beach.png", "beach.png"},
		{"image-uploaded prefix", "image-uploaded-sunset (copy).png", "sunset.png"},
		{"uploaded- after image marker", "Image: uploaded-dog.gif", "dog.gif"},
		{"trailing parenthetical without extension", "holiday snaps (final)", "holiday snaps"},
		{"path keeps last segment", "Image: C:/Users/me/Pictures/cat pic.jpeg", "cat pic.jpeg"},
		{"backslash path", `uploaded: C:\pics\my dog.png`, "my dog.png"},
		{"only markers", "Image: (2023)", ""},
		{"content id untouched", "abc123xyz", "abc123xyz"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanLabel(tt.ref))
		})
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		opts Options
		want string
	}{
		{
			name: "content id",
			ref:  "abc123xyz",
			opts: Options{Width: 600, Height: 400},
			want: "https://res.cloudinary.com/dif3z0kkk/image/upload/w_600,h_400,c_fill/q_auto,f_auto/abc123xyz",
		},
		{
			name: "zero options use defaults",
			ref:  "abc123xyz",
			want: "https://res.cloudinary.com/dif3z0kkk/image/upload/w_600,h_400,c_fill/q_auto,f_auto/abc123xyz",
		},
		{
			name: "detail size",
			ref:  "BlogApp/k3j2",
			opts: Options{Width: 800, Height: 500},
			want: "https://res.cloudinary.com/dif3z0kkk/image/upload/w_800,h_500,c_fill/q_auto,f_auto/BlogApp/k3j2",
		},
		{
			name: "legacy label is cleaned and encoded",
			ref:  "Image: My Photo (2023).jpg",
			opts: Options{Width: 600, Height: 400},
			want: "https://res.cloudinary.com/dif3z0kkk/image/upload/w_600,h_400,c_fill/q_auto,f_auto/My%20Photo.jpg",
		},
		{
			name: "legacy label keeps characters encodeURIComponent leaves alone",
			ref:  "Bob's photo!.jpg",
			want: "https://res.cloudinary.com/dif3z0kkk/image/upload/w_600,h_400,c_fill/q_auto,f_auto/Bob's%20photo!.jpg",
		},
		{
			name: "legacy label with star and tilde",
			ref:  "Image: a*b~c.jpg",
			want: "https://res.cloudinary.com/dif3z0kkk/image/upload/w_600,h_400,c_fill/q_auto,f_auto/a*b~c.jpg",
		},
		{
			name: "legacy label with nothing left",
			ref:  "Image: (2023)",
			want: "",
		},
		{
			name: "absent",
			ref:  "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveURL(tt.ref, tt.opts))
		})
	}
}

func TestResolverCustomHost(t *testing.T) {
	r := New("https://media.example.com/", "acct")
	assert.Equal(t, "media.example.com", r.Host)
	assert.Equal(t,
		"https://media.example.com/acct/image/upload/w_10,h_20,c_fill/q_auto,f_auto/id1",
		r.ResolveURL("id1", Options{Width: 10, Height: 20}))

	d := New("", "")
	assert.Equal(t, Default, d)
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want Description
	}{
		{
			name: "absent",
			ref:  "",
			want: Description{Label: "No image", Kind: "none"},
		},
		{
			name: "short content id",
			ref:  "abc123xyz",
			want: Description{Label: "Cloudinary image", Kind: "modern", Detail: "abc123xyz"},
		},
		{
			name: "long content id truncated to 20",
			ref:  "abcdefghijklmnopqrstuvwxyz0123",
			want: Description{Label: "Cloudinary image", Kind: "modern", Detail: "abcdefghijklmnopqrst..."},
		},
		{
			name: "legacy shows cleaned label",
			ref:  "Image: My Photo (2023).jpg",
			want: Description{Label: "Legacy image", Kind: "legacy", Detail: "My Photo.jpg"},
		},
		{
			name: "long legacy label truncated to 30",
			ref:  "uploaded: a very long holiday photograph from the beach.jpg",
			want: Description{Label: "Legacy image", Kind: "legacy", Detail: "a very long holiday photograph..."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.ref))
		})
	}
}

func TestTruncateCountsRunes(t *testing.T) {
	got := truncate(strings.Repeat("é", 25), 20)
	assert.Equal(t, strings.Repeat("é", 20)+"...", got)
}

// sampleRefs builds references from fragments so the properties below see
// every marker in several positions and cases.
func sampleRefs() []string {
	fragments := []string{
		"", "abc", "XYZ-09", "folder/", " ", "(", ")", "(2023)", "Image:", "IMAGE:",
		"uploaded:", "Uploaded:", "image-uploaded-", "IMAGE-UPLOADED-", "uploaded-",
		".jpg", "photo", "a\\b", "é",
	}
	var refs []string
	for _, a := range fragments {
		for _, b := range fragments {
			for _, c := range []string{"", "cat", " (copy).png", "Image:"} {
				refs = append(refs, a+b+c)
			}
		}
	}
	return refs
}

func hasMarker(ref string) bool {
	lowered := strings.ToLower(ref)
	for _, m := range []string{" ", "(", ")", "image:", "uploaded:", "image-uploaded-"} {
		if strings.Contains(lowered, m) {
			return true
		}
	}
	return false
}

func TestClassifyProperties(t *testing.T) {
	for _, ref := range sampleRefs() {
		got := Classify(ref)
		switch {
		case ref == "":
			require.Equal(t, KindAbsent, got, "ref %q", ref)
		case hasMarker(ref):
			require.Equal(t, KindLegacy, got, "ref %q", ref)
		default:
			require.Equal(t, KindContentID, got, "ref %q", ref)
		}
	}
}

func TestResolveURLProperties(t *testing.T) {
	const base = "https://res.cloudinary.com/dif3z0kkk/image/upload/w_600,h_400,c_fill/q_auto,f_auto/"
	for _, ref := range sampleRefs() {
		got := ResolveURL(ref, Options{Width: 600, Height: 400})
		switch Classify(ref) {
		case KindAbsent:
			require.Empty(t, got)
		case KindContentID:
			require.Equal(t, base+ref, got, "ref %q", ref)
			require.Contains(t, got, DefaultNamespace)
		case KindLegacy:
			if got == "" {
				require.Empty(t, CleanLabel(ref), "ref %q", ref)
				continue
			}
			require.True(t, strings.HasPrefix(got, base), "ref %q -> %q", ref, got)
			segment := strings.ToLower(strings.TrimPrefix(got, base))
			for _, m := range []string{"image:", "uploaded:", "image-uploaded-", "uploaded-"} {
				require.NotContains(t, segment, m, "ref %q -> %q", ref, got)
			}
		}
	}
}

func TestDescribeKindMatchesClassify(t *testing.T) {
	for _, ref := range sampleRefs() {
		require.Equal(t, Classify(ref).String(), Describe(ref).Kind, "ref %q", ref)
	}
}
