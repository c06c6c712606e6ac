package catalog

// DefaultTopics is the compiled-in topic list, in display order.
var DefaultTopics = []Topic{
	{
		ID:          "javascript",
		Name:        "JavaScript Fundamentals",
		Description: "Learn the core concepts of JavaScript programming",
	},
	{
		ID:          "ai",
		Name:        "Artificial Intelligence",
		Description: "Learn the core concepts of Artificial Intelligence programming",
	},
	{
		ID:          "react",
		Name:        "React Basics",
		Description: "Understanding React components and hooks",
	},
	{
		ID:          "lwc",
		Name:        "Lightning Web Components",
		Description: "Building modern Salesforce applications with LWC",
	},
	{
		ID:          "nodejs",
		Name:        "Node.js Backend",
		Description: "Server-side JavaScript with Node.js",
	},
}

// Catalog is an immutable, ordered set of topics.
type Catalog struct {
	topics []Topic
	index  map[string]int
}

// New builds a Catalog from topics. Later duplicates of an ID are ignored.
func New(topics []Topic) *Catalog {
	c := &Catalog{index: make(map[string]int, len(topics))}
	for _, t := range topics {
		if _, dup := c.index[t.ID]; dup || !ValidTopicID(t.ID) {
			continue
		}
		c.index[t.ID] = len(c.topics)
		c.topics = append(c.topics, t)
	}
	return c
}

// Default returns the catalog of DefaultTopics.
func Default() *Catalog {
	return New(DefaultTopics)
}

// Topics returns a copy of the topics in display order.
func (c *Catalog) Topics() []Topic {
	out := make([]Topic, len(c.topics))
	copy(out, c.topics)
	return out
}

// IDs returns the topic ids in display order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.topics))
	for i, t := range c.topics {
		ids[i] = t.ID
	}
	return ids
}

// Find looks up a topic by id.
func (c *Catalog) Find(id string) (Topic, bool) {
	i, ok := c.index[id]
	if !ok {
		return Topic{}, false
	}
	return c.topics[i], true
}

// Len returns the number of topics.
func (c *Catalog) Len() int { return len(c.topics) }
