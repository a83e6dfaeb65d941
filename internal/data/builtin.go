// Built-in fallback tables. Same shape as the YAML files, smaller
// content; used whenever a file is missing or malformed so startup
// never fails on data.
package data

func builtinCultures() []Culture {
	return []Culture{
		{
			Name:        "anglo-american",
			Weight:      0.6,
			MaleNames:   []string{"John", "James", "William", "Charles", "Joseph", "Henry", "Robert", "Samuel"},
			FemaleNames: []string{"Mary", "Elizabeth", "Sarah", "Margaret", "Anna", "Martha", "Catherine", "Emma"},
			Surnames:    []string{"Smith", "Johnson", "Brown", "Davis", "Miller", "Wilson", "Moore", "Taylor"},
		},
		{
			Name:        "irish",
			Weight:      0.15,
			MaleNames:   []string{"Patrick", "Michael", "Daniel", "Thomas"},
			FemaleNames: []string{"Bridget", "Nora", "Kathleen", "Eileen"},
			Surnames:    []string{"O'Brien", "Murphy", "Kelly", "Sullivan"},
		},
		{
			Name:        "german",
			Weight:      0.1,
			MaleNames:   []string{"Friedrich", "Wilhelm", "Heinrich", "Otto"},
			FemaleNames: []string{"Greta", "Helga", "Ingrid", "Clara"},
			Surnames:    []string{"Mueller", "Schmidt", "Weber", "Becker"},
		},
		{
			Name:        "mexican",
			Weight:      0.1,
			MaleNames:   []string{"Jose", "Miguel", "Antonio", "Francisco"},
			FemaleNames: []string{"Maria", "Josefa", "Guadalupe", "Rosa"},
			Surnames:    []string{"Garcia", "Martinez", "Rodriguez", "Lopez"},
		},
		{
			Name:        "chinese",
			Weight:      0.03,
			MaleNames:   []string{"Wei", "Jun", "Ming", "Hong"},
			FemaleNames: []string{"Mei", "Lin", "Xiu", "Yan"},
			Surnames:    []string{"Chen", "Wang", "Li", "Zhang"},
		},
		{
			Name:        "native-american",
			Weight:      0.02,
			MaleNames:   []string{"Ahiga", "Chayton", "Takoda"},
			FemaleNames: []string{"Aiyana", "Kimimela", "Winona"},
			Surnames:    []string{"Running Bear", "Sky Walker", "Red Cloud"},
		},
	}
}

func builtinBackgrounds() []Background {
	return []Background{
		{
			Name:       "Farmer",
			Skills:     map[string]int{"agriculture": 40, "construction": 20},
			Activities: []string{"farming", "tending crops", "preparing soil", "harvesting"},
			Rarity:     1.0,
		},
		{
			Name:       "Prospector",
			Skills:     map[string]int{"mining": 40, "survival": 25},
			Activities: []string{"mining", "prospecting", "panning gold", "exploring"},
			Rarity:     1.0,
		},
		{
			Name:       "Merchant",
			Skills:     map[string]int{"social": 40, "leadership": 20},
			Activities: []string{"trading", "negotiating", "inventory management"},
			Rarity:     0.8,
		},
		{
			Name:       "Carpenter",
			Skills:     map[string]int{"construction": 45, "crafting": 25},
			Activities: []string{"woodworking", "construction", "tool maintenance", "roofing"},
			Rarity:     0.8,
		},
		{
			Name:       "Hunter",
			Skills:     map[string]int{"hunting": 45, "tracking": 30},
			Activities: []string{"hunting", "tracking", "preparing meat", "scouting"},
			Rarity:     0.8,
		},
		{
			Name:       "Doctor",
			Skills:     map[string]int{"medical": 55, "social": 20},
			Activities: []string{"treating patients", "preparing medicine", "health inspections"},
			Rarity:     0.3,
		},
		{
			Name:       "Blacksmith",
			Skills:     map[string]int{"metalwork": 50, "crafting": 25},
			Activities: []string{"metalworking", "tool forging", "horseshoeing", "repairs"},
			Rarity:     0.5,
		},
		{
			Name:       "Rancher",
			Skills:     map[string]int{"survival": 35, "agriculture": 25},
			Activities: []string{"herding cattle", "maintaining fences", "breaking horses"},
			Rarity:     0.6,
		},
		{
			Name:       "Sheriff",
			Skills:     map[string]int{"combat": 40, "leadership": 35},
			Activities: []string{"patrolling", "maintaining order", "investigating"},
			Rarity:     0.2,
		},
		{
			Name:       "Teacher",
			Skills:     map[string]int{"social": 35, "leadership": 25},
			Activities: []string{"teaching children", "preparing lessons", "community lectures"},
			Rarity:     0.3,
		},
	}
}

func builtinEvents() map[string][]EventTemplate {
	return map[string][]EventTemplate{
		"social": {
			{
				Template:     "{character1} organized a community gathering at {location}",
				Participants: 1,
				Effects:      []EffectSpec{{Type: "mood", Target: "all", Modifier: 5}},
			},
			{
				Template:     "{character1} and {character2} settled an old dispute over a shared meal",
				Participants: 2,
				Effects:      []EffectSpec{{Type: "mood", Target: "participants", Modifier: 8}},
			},
			{
				Template:     "{character1} told tall tales around the evening fire",
				Participants: 1,
				Effects:      []EffectSpec{{Type: "mood", Target: "all", Modifier: 3}},
			},
		},
		"economic": {
			{
				Template:     "{character1} struck a profitable deal with a passing wagon train",
				Participants: 1,
				Effects: []EffectSpec{
					{Type: "resource", Resource: "money", Modifier: 15},
					{Type: "skill", Skill: "social", Modifier: 2},
				},
			},
			{
				Template:     "A supply wagon arrived with fresh goods",
				Participants: 0,
				Effects: []EffectSpec{
					{Type: "resource", Resource: "food", Modifier: 20},
					{Type: "resource", Resource: "tools", Modifier: 5},
				},
				Requirements: map[string]float64{"money": 20},
			},
		},
		"environmental": {
			{
				Template:     "{character1} found a fresh spring in the hills",
				Participants: 1,
				Effects:      []EffectSpec{{Type: "resource", Resource: "water", Modifier: 25}},
			},
			{
				Template:     "A stretch of good timber was discovered nearby",
				Participants: 0,
				Effects:      []EffectSpec{{Type: "resource", Resource: "wood", Modifier: 15}},
			},
		},
		"conflict": {
			{
				Template:     "{character1} and {character2} came to blows over a boundary line",
				Participants: 2,
				Effects: []EffectSpec{
					{Type: "mood", Target: "participants", Modifier: -10},
					{Type: "health", Modifier: -5},
				},
			},
			{
				Template:     "Rustlers made off with supplies in the night",
				Participants: 0,
				Effects: []EffectSpec{
					{Type: "resource", Resource: "food", Modifier: -10},
					{Type: "mood", Target: "all", Modifier: -5},
				},
			},
		},
	}
}

func builtinLocations() []Location {
	return []Location{
		{Name: "Red Rock Territory", Terrain: "high desert", Description: "Red sandstone mesas above a dry creek bed"},
		{Name: "Dry Creek Crossing", Terrain: "plains", Description: "A ford on the wagon road east"},
		{Name: "Silver Gulch", Terrain: "canyon", Description: "Played-out diggings with a few stubborn claims"},
	}
}
