// Package routes holds the client route table and the authentication guard
// that decides where a request for a path ends up.
package routes

import "strings"

// Well-known paths.
const (
	Root      = "/"
	Login     = "/login"
	Register  = "/register"
	Dashboard = "/dashboard"
	Profile   = "/profile"
	Trash     = "/blog"
	AddBlog   = "/add-blog"
	Blogs     = "/blogs"
	EditBlog  = "/edit-blog/:id"
	ViewBlog  = "/view-blog/:id"
)

// Access says who may visit a route.
type Access int

const (
	Public Access = iota
	Protected
)

// Route is one entry of the table. Pattern segments starting with ':' match
// any single non-empty segment.
type Route struct {
	Pattern string
	Access  Access
}

// Table lists every route the client knows, in match order.
var Table = []Route{
	{Login, Public},
	{Register, Public},
	{Dashboard, Protected},
	{Profile, Protected},
	{Trash, Protected},
	{AddBlog, Protected},
	{Blogs, Protected},
	{EditBlog, Protected},
	{ViewBlog, Protected},
}

// Decision is the outcome of resolving a path.
type Decision struct {
	// Target is the path that is finally shown.
	Target string
	// Redirected is true when Target differs from the requested path.
	Redirected bool
}

// Resolve applies the guard to path. "/" goes to the dashboard or the login
// page, protected routes require authenticated, and unknown paths fall back
// to "/" and are resolved again.
func Resolve(path string, authenticated bool) Decision {
	p := normalize(path)
	target := resolve(p, authenticated)
	return Decision{Target: target, Redirected: target != p}
}

func resolve(p string, authenticated bool) string {
	if p == Root {
		if authenticated {
			return Dashboard
		}
		return Login
	}
	r, ok := Match(p)
	if !ok {
		return resolve(Root, authenticated)
	}
	if r.Access == Protected && !authenticated {
		return Login
	}
	return p
}

// Match finds the route whose pattern matches path.
func Match(path string) (Route, bool) {
	p := normalize(path)
	for _, r := range Table {
		if matches(r.Pattern, p) {
			return r, true
		}
	}
	return Route{}, false
}

// Build fills the ':' segments of pattern with args in order. Missing
// arguments leave the placeholder in place.
func Build(pattern string, args ...string) string {
	segs := strings.Split(pattern, "/")
	for i, s := range segs {
		if strings.HasPrefix(s, ":") && len(args) > 0 {
			segs[i] = args[0]
			args = args[1:]
		}
	}
	return strings.Join(segs, "/")
}

func matches(pattern, path string) bool {
	ps := strings.Split(pattern, "/")
	xs := strings.Split(path, "/")
	if len(ps) != len(xs) {
		return false
	}
	for i := range ps {
		if strings.HasPrefix(ps[i], ":") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != xs[i] {
			return false
		}
	}
	return true
}

func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = Root
		}
	}
	return path
}
