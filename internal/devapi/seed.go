package devapi

import "yoladmin/pkg/constraints"

func (s *Server) seed() {
	users := []record{
		{"telegram_id": int64(500100200), "full_name": "Aziz Karimov", "phone_number": "+998901112233", "language": "uz"},
		{"telegram_id": int64(500100201), "full_name": "Dilshod Rahimov", "phone_number": "+998901112244", "language": "uz"},
		{"telegram_id": int64(500100202), "full_name": "Sergey Ivanov", "phone_number": "+998935556677", "language": "ru"},
		{"telegram_id": int64(500100203), "full_name": "Malika Yusupova", "phone_number": "+998977778899", "language": "uz"},
	}
	for _, u := range users {
		s.users.insert(u)
	}

	drivers := []record{
		{"user_id": int64(1), "direction": constraints.DirectionTaxi, "is_approved": true, "points": 120, "rating": 4.8,
			"car_make": "Chevrolet Cobalt", "car_year": 2021, "car_number": "01A123BC", "region": "Toshkent"},
		{"user_id": int64(2), "direction": constraints.DirectionCargo, "is_approved": false, "points": 0, "rating": 0.0,
			"car_make": "Isuzu NPR", "car_year": 2018, "car_number": "30B456DE", "region": "Samarqand", "car_capacity": 5},
		{"user_id": int64(3), "direction": constraints.DirectionTaxi, "is_approved": true, "points": 40, "rating": 4.2,
			"car_make": "Chevrolet Nexia", "car_year": 2016, "car_number": "40C789FG", "region": "Farg'ona"},
	}
	for _, d := range drivers {
		d["passport_photo"] = "drivers/passport/seed.jpg"
		d["driver_license_photo"] = "drivers/license/seed.jpg"
		d["sts_photo"] = "drivers/sts/seed.jpg"
		d["car_photo"] = "drivers/car/seed.jpg"
		s.drivers.insert(d)
	}

	orders := []record{
		{"user_id": int64(4), "order_type": constraints.OrderTypeTaxi, "full_name": "Malika Yusupova", "phone_number": "+998977778899",
			"from_location": "Toshkent", "to_location": "Samarqand", "num_passengers": 2, "status": constraints.OrderPending,
			"created_at": "2025-03-01T08:00:00Z"},
		{"user_id": int64(4), "order_type": constraints.OrderTypeCargo, "full_name": "Malika Yusupova", "phone_number": "+998977778899",
			"from_location": "Toshkent", "to_location": "Buxoro", "weight_tons": 1.5, "item_description": "Mebel",
			"status": constraints.OrderAccepted, "driver_id": int64(2), "created_at": "2025-03-05T10:30:00Z"},
		{"user_id": int64(3), "order_type": constraints.OrderTypePackage, "full_name": "Sergey Ivanov", "phone_number": "+998935556677",
			"from_location": "Namangan", "to_location": "Toshkent", "status": constraints.OrderCompleted, "driver_id": int64(1),
			"created_at": "2025-03-10T14:15:00Z"},
	}
	for _, o := range orders {
		if u, ok := s.users.get(o["user_id"].(int64)); ok {
			o["user"] = u
		}
		s.orders.insert(o)
	}

	s.transactions.insert(record{"driver_id": int64(1), "amount": 100, "transaction_type": constraints.TransactionAdd, "reason": "Karta orqali to'lov"})
	s.transactions.insert(record{"driver_id": int64(1), "amount": 10, "transaction_type": constraints.TransactionSubtract, "reason": "Buyurtma"})

	s.countries.insert(record{"code": "UZ", "name_uz": "O'zbekiston", "name_ru": "Узбекистан", "name_cy": "Ўзбекистон"})
	s.countries.insert(record{"code": "KZ", "name_uz": "Qozog'iston", "name_ru": "Казахстан", "name_kz": "Қазақстан"})

	s.prices.insert(record{"name": "Start", "service": constraints.ServiceTaxiPackage, "point_amount": 50, "price": 50000.0,
		"discount_percentage": 0.0, "order_number": 1, "is_active": true, "is_popular": false})
	s.prices.insert(record{"name": "Pro", "service": constraints.ServiceCargo, "point_amount": 200, "price": 180000.0,
		"discount_percentage": 10.0, "order_number": 2, "is_active": true, "is_popular": true})

	s.cards.insert(record{"card_number": "8600 1234 5678 9012", "card_holder_name": "YOL YOLAKAY MCHJ", "bank_name": "Kapitalbank", "is_active": true})

	s.purchases.insert(record{"driver_id": int64(3), "point_price_id": int64(1), "card_number": "8600 1234 5678 9012",
		"status": constraints.PurchasePending, "admin_comment": nil})
}
