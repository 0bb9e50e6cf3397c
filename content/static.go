package content

// Built-in word pools. These ship with the binary so a server with no
// database still serves every mode.

var builtinThemes = map[string]Theme{
	"classic": {
		Name: "classic",
		Entries: []WordEntry{
			{Word: "lighthouse", Category: "places"},
			{Word: "submarine", Category: "vehicles"},
			{Word: "volcano", Category: "nature"},
			{Word: "carnival", Category: "events"},
			{Word: "library", Category: "places"},
			{Word: "telescope", Category: "objects"},
			{Word: "waterfall", Category: "nature"},
			{Word: "orchestra", Category: "music"},
			{Word: "pyramid", Category: "places"},
			{Word: "parachute", Category: "objects"},
			{Word: "iceberg", Category: "nature"},
			{Word: "marathon", Category: "events"},
		},
	},
	"animals": {
		Name: "animals",
		Entries: []WordEntry{
			{Word: "penguin", Category: "animals"},
			{Word: "octopus", Category: "animals"},
			{Word: "kangaroo", Category: "animals"},
			{Word: "chameleon", Category: "animals"},
			{Word: "flamingo", Category: "animals"},
			{Word: "hedgehog", Category: "animals"},
			{Word: "dolphin", Category: "animals"},
			{Word: "sloth", Category: "animals"},
		},
	},
	"food": {
		Name: "food",
		Entries: []WordEntry{
			{Word: "lasagna", Category: "food"},
			{Word: "sushi", Category: "food"},
			{Word: "pancake", Category: "food"},
			{Word: "guacamole", Category: "food"},
			{Word: "croissant", Category: "food"},
			{Word: "barbecue", Category: "food"},
			{Word: "popcorn", Category: "food"},
			{Word: "cheesecake", Category: "food"},
		},
	},
}

var builtinLocations = []Location{
	{Name: "airplane", Roles: []string{"pilot", "flight attendant", "passenger", "air marshal"}},
	{Name: "hospital", Roles: []string{"surgeon", "nurse", "patient", "anesthesiologist"}},
	{Name: "pirate ship", Roles: []string{"captain", "cook", "deckhand", "prisoner"}},
	{Name: "movie studio", Roles: []string{"director", "actor", "camera operator", "stunt double"}},
	{Name: "space station", Roles: []string{"commander", "engineer", "scientist", "tourist"}},
	{Name: "casino", Roles: []string{"dealer", "gambler", "bartender", "security guard"}},
	{Name: "submarine", Roles: []string{"captain", "sonar operator", "cook", "mechanic"}},
	{Name: "circus", Roles: []string{"ringmaster", "acrobat", "clown", "juggler"}},
}

var builtinQuestions = []QuestionPair{
	{Crew: "What is your favorite breakfast food?", Impostor: "What is your favorite dinner food?"},
	{Crew: "How many hours do you sleep per night?", Impostor: "How many hours do you work per day?"},
	{Crew: "What animal would you keep as a pet?", Impostor: "What animal are you most afraid of?"},
	{Crew: "Which city would you like to visit?", Impostor: "Which city would you like to live in?"},
	{Crew: "What was your favorite subject in school?", Impostor: "What was your worst subject in school?"},
	{Crew: "How often do you exercise per week?", Impostor: "How often do you cook per week?"},
	{Crew: "What superpower would you choose?", Impostor: "What superpower would be most dangerous?"},
	{Crew: "What is the best season of the year?", Impostor: "What is the best month of the year?"},
}
