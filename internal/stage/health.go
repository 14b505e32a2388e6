package stage

// Health is a stage's answer to "could you run right now?".
type Health struct {
	Name  string
	Ready bool
	// Detail names the tool a ready stage will use, or what is missing.
	Detail string
}

// Available reports a ready stage; detail may name the resolved tool.
func Available(name, detail string) Health {
	return Health{Name: name, Ready: true, Detail: detail}
}

// Unavailable reports a stage that would fail before doing any work.
func Unavailable(name, detail string) Health {
	return Health{Name: name, Detail: detail}
}

// NotReady filters results down to the stages that cannot run.
func NotReady(results []Health) []Health {
	var out []Health
	for _, h := range results {
		if !h.Ready {
			out = append(out, h)
		}
	}
	return out
}
