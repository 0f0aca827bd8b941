package status

// Counts tallies records per status bucket.
type Counts struct {
	Good     int `json:"good"`
	Moderate int `json:"moderate"`
	Bad      int `json:"bad"`
	Unknown  int `json:"unknown"`
}

// Bucket is one non-empty status slice of a Counts value.
type Bucket struct {
	Status Status
	Count  int
}

// Add increments the bucket for s.
func (c *Counts) Add(s Status) {
	switch s {
	case Good:
		c.Good++
	case Moderate:
		c.Moderate++
	case Bad:
		c.Bad++
	default:
		c.Unknown++
	}
}

// Merge adds every bucket of other into c.
func (c *Counts) Merge(other Counts) {
	c.Good += other.Good
	c.Moderate += other.Moderate
	c.Bad += other.Bad
	c.Unknown += other.Unknown
}

// Get returns the count for s.
func (c Counts) Get(s Status) int {
	switch s {
	case Good:
		return c.Good
	case Moderate:
		return c.Moderate
	case Bad:
		return c.Bad
	default:
		return c.Unknown
	}
}

// Total returns the number of records counted.
func (c Counts) Total() int {
	return c.Good + c.Moderate + c.Bad + c.Unknown
}

// NonZero returns the buckets with at least one record, in display order.
func (c Counts) NonZero() []Bucket {
	buckets := make([]Bucket, 0, len(Ordered))
	for _, s := range Ordered {
		if n := c.Get(s); n > 0 {
			buckets = append(buckets, Bucket{Status: s, Count: n})
		}
	}
	return buckets
}
