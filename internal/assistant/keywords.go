package assistant

// US states and Canadian provinces recognized in permit and provision queries.
var states = []string{
	"Alabama", "Alaska", "Alberta", "Arizona", "Arkansas",
	"British Columbia", "California", "Colorado", "Connecticut",
	"Delaware", "Florida", "Georgia", "Hawaii", "Idaho",
	"Illinois", "Indiana", "Iowa", "Kansas", "Kentucky",
	"Louisiana", "Maine", "Manitoba", "Maryland", "Massachusetts",
	"Michigan", "Minnesota", "Mississippi", "Missouri", "Montana",
	"Nebraska", "Nevada", "New Brunswick", "New Hampshire",
	"New Jersey", "New Mexico", "New York", "Newfoundland and Labrador",
	"North Carolina", "North Dakota", "Nova Scotia", "Ohio",
	"Oklahoma", "Ontario", "Oregon", "Pennsylvania",
	"Prince Edward Island", "Quebec", "Rhode Island", "Saskatchewan",
	"South Carolina", "South Dakota", "Tennessee", "Texas",
	"Utah", "Vermont", "Virginia", "Washington", "West Virginia",
	"Wisconsin", "Wyoming",
}

var orderSwitchKeywords = []string{
	"switch to orders", "go to orders", "go back to orders",
	"go back orders", "go back order", "check orders",
	"talk about orders", "discuss orders", "discuss about orders",
	"order system", "order management", "orders management",
	"orders updates", "order list", "orders list", "orders overview",
	"orders report", "orders data", "orders query", "orders search",
	"order inquiry", "orders inquiry", "order menu", "orders menu",
	"order section", "orders section", "order dashboard",
	"orders dashboard", "order portal", "orders portal",
	"order screen", "orders screen", "order page", "orders page",
	"order tab", "orders tab", "order module", "orders module",
	"order interface", "orders interface", "order platform",
	"orders platform", "show orders", "view orders",
	"return to orders",
}

var permitSwitchKeywords = []string{
	"switch to permit", "switch to permits",
	"go to permit", "go to permits",
	"go back to permit", "go back to permits",
	"go back permit", "go back permits",
	"open permit", "open permits",
	"see permit", "see permits",
	"show permit", "show permits",
	"view permit", "view permits",
	"check permit", "check permits",
	"talk about permit", "talk about permits",
	"discuss permit", "discuss permits",
	"discuss about permit", "discuss about permits",
	"permit system", "permits system",
	"permit management", "permits management",
	"permit updates", "permits updates",
	"permit list", "permits list",
	"permit overview", "permits overview",
	"permit report", "permits report",
	"permit data", "permits data",
	"permit query", "permits query",
	"permit search", "permits search",
	"permit inquiry", "permits inquiry",
	"permit menu", "permits menu",
	"permit section", "permits section",
	"permit dashboard", "permits dashboard",
	"permit portal", "permits portal",
	"permit screen", "permits screen",
	"permit page", "permits page",
	"permit tab", "permits tab",
	"permit module", "permits module",
	"permit interface", "permits interface",
	"permit platform", "permits platform",
}

var provisionKeywords = []string{
	"provision", "state provision", "provision file",
	"provisional", "state provisional file", "provisional file",
	"provisions", "state info", "state information",
	"state data", "state details", "provision info",
	"provision information", "switch to states",
}

var proactiveStatusKeywords = []string{
	"any updates", "any alerts", "any notifications",
	"what's new", "whats new", "anything new",
	"any changes", "status update", "status updates",
	"proactive update", "proactive updates",
	"check for updates", "check updates",
	"pending alerts", "any pending",
	"what did i miss", "anything i should know",
	"catch me up", "brief me",
}

// positionMapping ties a spoken position phrase to an index into the user's
// orders, newest first.
type positionMapping struct {
	phrase string
	index  int
}

// positionMappings is checked in order, so compound phrases ("second last")
// match before their bare suffixes ("last").
var positionMappings = []positionMapping{
	{"third last", 2}, {"third latest", 2},
	{"second last", 1}, {"second latest", 1},
	{"fourth last", 3}, {"fourth latest", 3},
	{"fifth last", 4}, {"fifth latest", 4},
	{"sixth last", 5}, {"sixth latest", 5},
	{"seventh last", 6}, {"seventh latest", 6},
	{"eighth last", 7}, {"eighth latest", 7},
	{"ninth last", 8}, {"ninth latest", 8},
	{"tenth last", 9}, {"tenth latest", 9},
	{"latest", 0}, {"last", 0}, {"newest", 0},
	{"second", 1}, {"third", 2}, {"fourth", 3},
	{"fifth", 4}, {"sixth", 5}, {"seventh", 6},
	{"eighth", 7}, {"ninth", 8}, {"tenth", 9},
}

var positionDescriptions = map[int]string{
	0: "latest", 1: "second latest", 2: "third latest",
	3: "fourth latest", 4: "fifth latest", 5: "sixth latest",
	6: "seventh latest", 7: "eighth latest", 8: "ninth latest",
	9: "tenth latest",
}
