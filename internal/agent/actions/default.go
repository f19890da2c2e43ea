package actions

var quantityArg = ArgSpec{
	Field:  "quantity",
	Type:   TypeInteger,
	Desc:   "Quantity to add (default 1)",
	Bounds: &Bounds{Min: 1, Max: 50},
	Prompt: "Please choose a quantity between 1 and 50.",
}

// Default returns the registry of every action the restaurant engine supports.
func Default() *Registry {
	return NewRegistry(
		Entry{
			Name:         NameShowFoodMenu,
			Description:  "Show a list of food categories available in the restaurant menu. Use this when user wants to see the menu, browse food options, or asks what's available.",
			ModelVisible: true,
		},
		Entry{
			Name:         NameShowCategoryItems,
			Description:  "Show the items of one menu category (momos, noodles, rice, beverages). Use this when user asks for a specific category.",
			ModelVisible: true,
			Args: []ArgSpec{{
				Field:  "category",
				Type:   TypeString,
				Desc:   "The menu category to show",
				Prompt: "Which category would you like to see?",
			}},
		},
		Entry{
			Name:         NameShowMomoVarieties,
			Description:  "Show momo varieties. Use this when user selects momos from the menu or asks specifically about momos.",
			ModelVisible: true,
		},
		Entry{
			Name:         NameAddItemByName,
			Description:  "Add an item to cart by name. Use this when user wants to add a specific item by typing its name (e.g., 'add momo', 'I want tandoori momo', 'add 2 steam momo'). This validates the item against the menu before adding.",
			ModelVisible: true,
			Args: []ArgSpec{
				{
					Field:    "name",
					Type:     TypeString,
					Required: true,
					Desc:     "The name of the food item to add",
					Prompt:   "Please specify which item you want to add.",
				},
				quantityArg,
			},
		},
		Entry{
			Name:        NameAddToCart,
			Description: "Add a catalog item to the cart by id.",
			Args: []ArgSpec{
				{
					Field:    "foodId",
					Type:     TypeInteger,
					Required: true,
					Desc:     "Catalog id of the food item",
					Bounds:   &Bounds{Min: 1, Max: 1 << 30},
					Prompt:   "Sorry, that item is not available.",
				},
				quantityArg,
			},
		},
		Entry{
			Name:         NameShowCartOptions,
			Description:  "Show the current cart with options to add more items or checkout. Use when user asks to see their cart.",
			ModelVisible: true,
		},
		Entry{
			Name:         NameConfirmOrder,
			Description:  "Show order confirmation with confirm and cancel buttons. ONLY use this when user explicitly says 'checkout', 'place order', 'confirm order', or clicks checkout. Do NOT use this when user is adding items.",
			ModelVisible: true,
			Args: []ArgSpec{{
				Field: "items",
				Type:  TypeArray,
				Desc:  "Leave empty; the cart is managed separately",
				Items: []ArgSpec{
					{Field: "foodId", Type: TypeInteger, Desc: "Catalog id"},
					{Field: "name", Type: TypeString, Desc: "Item name"},
					quantityArg,
				},
			}},
		},
		Entry{
			Name:         NameProcessOrderResponse,
			Description:  "Process the user's response to order confirmation: confirmed, cancelled (asks for confirmation) or cancel_confirm (cancellation confirmed).",
			ModelVisible: true,
			Args: []ArgSpec{{
				Field:    "action",
				Type:     TypeString,
				Required: true,
				Enum:     []string{string(ResponseConfirmed), string(ResponseCancelled), string(ResponseCancelConfirm)},
				Desc:     "Whether the order was confirmed or cancelled",
				Prompt:   "Please confirm or cancel your order.",
			}},
		},
		Entry{
			Name:         NameSelectServiceType,
			Description:  "Select between 'Dine-in' or 'Delivery' service. Use without arguments to ask user, or with 'type' argument when user makes a selection.",
			ModelVisible: true,
			Args: []ArgSpec{{
				Field:  "type",
				Type:   TypeString,
				Enum:   []string{"dine_in", "delivery"},
				Desc:   "The service type selected by the user",
				Prompt: "Please choose Dine-in or Delivery.",
			}},
		},
		Entry{
			Name:         NameProvideLocation,
			Description:  "Provide delivery address or location. Use this when user sends their address for delivery.",
			ModelVisible: true,
			Args: []ArgSpec{{
				Field:    "address",
				Type:     TypeString,
				Required: true,
				Desc:     "The delivery address provided by the user",
				Bounds:   &Bounds{Min: 5, Max: 500},
				Prompt:   "Please provide a valid delivery address.",
			}},
		},
		Entry{
			Name:        NameCapturePartySize,
			Description: "Record the number of guests for a dine-in reservation.",
			Args: []ArgSpec{{
				Field:    "partySize",
				Type:     TypeInteger,
				Required: true,
				Bounds:   &Bounds{Min: 1, Max: 50},
				Prompt:   "Please enter a valid number for party size.",
			}},
		},
		Entry{
			Name:        NameCaptureArrivalTime,
			Description: "Record the arrival time for a dine-in reservation.",
			Args: []ArgSpec{{
				Field:    "arrivalTime",
				Type:     TypeString,
				Required: true,
				Bounds:   &Bounds{Min: 1, Max: 100},
				Prompt:   "Please tell us what time you will arrive (e.g. \"7:30 PM\").",
			}},
		},
		Entry{
			Name:        NameConfirmDeposit,
			Description: "Confirm the reservation deposit and continue to payment.",
		},
		Entry{
			Name:         NameShowPaymentOptions,
			Description:  "Show payment method options once the service type is set and, for delivery, the address is provided.",
			ModelVisible: true,
		},
		Entry{
			Name:        NameProcessPayment,
			Description: "Record the selected payment method and complete the order.",
			Args: []ArgSpec{{
				Field:    "method",
				Type:     TypeString,
				Required: true,
				Enum:     []string{"ONLINE", "CASH_COUNTER", "COD"},
				Prompt:   "Please choose a payment method.",
			}},
		},
		Entry{
			Name:         NameShowOrderHistory,
			Description:  "Show the user's past orders and order history. Use when user asks about their previous orders, order history, past orders, or wants to see what they ordered before.",
			ModelVisible: true,
		},
		Entry{
			Name:         NameRecommendFood,
			Description:  "Recommend food items. If user specifies a preference (e.g. spicy, soup), pass the 'tag'. If user just asks for 'something' or 'recommendation' without preference, do NOT pass any tag.",
			ModelVisible: true,
			Args: []ArgSpec{{
				Field: "tag",
				Type:  TypeString,
				Desc:  "The keyword or tag to search for (e.g., 'spicy', 'soup')",
			}},
		},
		Entry{
			Name:        NameShowWelcome,
			Description: "Greet a new user with the welcome card.",
		},
		Entry{
			Name:         NameSendTextReply,
			Description:  "Send a simple text reply for greetings, general questions, or when no special UI is needed.",
			ModelVisible: true,
			Args: []ArgSpec{{
				Field:    "message",
				Type:     TypeString,
				Required: true,
				Desc:     "The text message to send to the user",
				Prompt:   "How can I help you today?",
			}},
		},
	)
}
